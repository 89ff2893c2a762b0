package user

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
)

type memRepository struct {
	users []User
}

var _ Repository = (*memRepository)(nil)

func (r *memRepository) QueryAll(context.Context) ([]User, error) {
	return append([]User(nil), r.users...), nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memRepository) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memRepository) Create(_ context.Context, usr User) (User, error) {
	usr.ID = "u" + strconv.Itoa(len(r.users)+1)
	r.users = append(r.users, usr)
	return usr, nil
}

func (r *memRepository) Update(_ context.Context, usr User) (User, error) {
	for i := range r.users {
		if r.users[i].ID == usr.ID {
			r.users[i] = usr
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].LastLogin = at
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepository) Delete(_ context.Context, id string) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			break
		}
	}
	return nil
}

type mailerMock struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (m *mailerMock) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			panic(err)
		}
		m.sent = append(m.sent, msg)
	}
}

const goodPwd = "Tr0ub4dor&3x"

func newService() (*Service, *memRepository, *mailerMock) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	repo := new(memRepository)
	mailer := new(mailerMock)
	svc := NewService(repo, validate, mailer, ServiceOptions{
		SecretKey:            "secret",
		PasswordResetTimeout: 3 * 24 * time.Hour,
		FrontendBaseURL:      "http://front.test",
	})
	return svc, repo, mailer
}

func newUser(name, email, role, dept string) NewUser {
	return NewUser{
		Name:            name,
		Email:           email,
		Password:        goodPwd,
		PasswordConfirm: goodPwd,
		Role:            role,
		Department:      dept,
	}
}

func TestService_Create(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, newUser("Jane Doe", "jane@student.edu", RoleStudent, "CS"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		nu       NewUser
		wantTags map[string]string
		wantErr  error
	}{
		{name: "admin without department", nu: newUser("Root", "root@college.edu", RoleAdmin, "")},
		{name: "teacher", nu: newUser("John Smith", " JOHN@college.edu ", RoleTeacher, "CS")},
		{name: "student without department", nu: newUser("Bob", "bob@student.edu", RoleStudent, ""), wantTags: map[string]string{"department": "required"}},
		{name: "unknown role", nu: newUser("Bob", "bob@student.edu", "janitor", "CS"), wantTags: map[string]string{"role": "role"}},
		{name: "invalid email", nu: newUser("Bob", "bob", RoleStudent, "CS"), wantTags: map[string]string{"email": "email"}},
		{name: "duplicate email", nu: newUser("Jane Again", "JANE@student.edu", RoleStudent, "CS"), wantErr: ErrEmailExists},
		{
			name:     "password mismatch",
			nu:       NewUser{Name: "Bob", Email: "bob@student.edu", Password: goodPwd, PasswordConfirm: "nope", Role: RoleStudent, Department: "CS"},
			wantTags: map[string]string{"password_confirm": "eqfield"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(repo.users)
			usr, err := svc.Create(ctx, tt.nu)

			switch {
			case tt.wantTags != nil:
				var vErrs validator.ValidationErrors
				require.True(t, errors.As(err, &vErrs), "error = %v", err)
				got := make(map[string]string)
				for _, fe := range vErrs {
					got[fe.Field()] = fe.Tag()
				}
				assert.Equal(t, tt.wantTags, got)
			case tt.wantErr != nil:
				var vErr *core.ValidationError
				require.True(t, errors.As(err, &vErr), "error = %v", err)
				assert.Equal(t, tt.wantErr, vErr.Err)
			default:
				require.NoError(t, err)
				assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.nu.Email)), usr.Email)
				assert.NoError(t, usr.CheckPassword(goodPwd))
				assert.Len(t, repo.users, before+1)
				return
			}
			assert.Len(t, repo.users, before)
		})
	}
}

func TestPasswordPolicy(t *testing.T) {
	svc, _, _ := newService()

	tests := []struct {
		pwd     string
		wantTag string
	}{
		{pwd: "Sh0rt!", wantTag: pwdMinLenTag},
		{pwd: "has Space1!", wantTag: pwdNoSpaceTag},
		{pwd: "1234567890", wantTag: pwdNotAllNumTag},
		{pwd: "alllowercase1!", wantTag: pwdComplexityTag},
		{pwd: "NoDigitsHere!", wantTag: pwdComplexityTag},
		{pwd: "Margaret.Hamilton1", wantTag: pwdAttrSimTag},
		{pwd: goodPwd},
	}
	for _, tt := range tests {
		t.Run(tt.pwd, func(t *testing.T) {
			nu := newUser("Margaret Hamilton", "margaret@college.edu", RoleTeacher, "CS")
			nu.Password, nu.PasswordConfirm = tt.pwd, tt.pwd

			_, err := svc.Create(context.Background(), nu)
			if tt.wantTag == "" {
				require.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "error = %v", err)
			require.Len(t, vErrs, 1)
			assert.Equal(t, "password", vErrs[0].Field())
			assert.Equal(t, tt.wantTag, vErrs[0].Tag())
		})
	}
}

func TestService_Register(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, newUser("Root", "root@college.edu", " Admin ", ""))
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, ErrRoleNotAllowed, vErr.Err)
	assert.Empty(t, repo.users)

	usr, err := svc.Register(ctx, newUser("Jane Doe", "jane@student.edu", RoleStudent, "CS"))
	require.NoError(t, err)
	assert.Equal(t, Viewer{ID: usr.ID, Role: RoleStudent, Department: "CS"}, usr.Viewer())
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	created, err := svc.Create(ctx, newUser("Jane Doe", "jane@student.edu", RoleStudent, "CS"))
	require.NoError(t, err)
	require.True(t, created.LastLogin.IsZero())

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "nobody@student.edu", pwd: goodPwd, wantErr: ErrInvalidCredentials},
		{name: "wrong password", email: "jane@student.edu", pwd: "nope", wantErr: ErrInvalidCredentials},
		{name: "ok", email: " Jane@Student.edu", pwd: goodPwd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, usr.ID)
			assert.False(t, usr.LastLogin.IsZero())
			stored, err := svc.GetByID(ctx, usr.ID)
			require.NoError(t, err)
			assert.Equal(t, usr.LastLogin, stored.LastLogin)
			assert.Equal(t, created.PasswordHash, stored.PasswordHash)
		})
	}
}

func TestService_Filter(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	for _, nu := range []NewUser{
		newUser("Jane Doe", "jane@student.edu", RoleStudent, "Computer Science"),
		newUser("John Smith", "john@college.edu", RoleTeacher, "Computer Science"),
		newUser("Ada Admin", "ada@college.edu", RoleAdmin, ""),
	} {
		_, err := svc.Create(ctx, nu)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{name: "all", want: []string{"Jane Doe", "John Smith", "Ada Admin"}},
		{name: "role", filter: QueryFilter{Role: RoleTeacher}, want: []string{"John Smith"}},
		{name: "search", filter: QueryFilter{Search: "college"}, want: []string{"John Smith", "Ada Admin"}},
		{name: "role and search", filter: QueryFilter{Search: "science", Role: RoleStudent}, want: []string{"Jane Doe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.Filter(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestService_passwordReset(t *testing.T) {
	svc, _, mailer := newService()
	ctx := context.Background()
	usr, err := svc.Create(ctx, newUser("Jane Doe", "jane@student.edu", RoleStudent, "CS"))
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.RequestPasswordReset(ctx, "nobody@student.edu"), ErrNotFound))
	require.NoError(t, svc.RequestPasswordReset(ctx, "jane@student.edu"))
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "jane@student.edu", msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "Hello Jane Doe")
	assert.Contains(t, msg.HTMLContent, "http://front.test/password-reset/")

	uid := EncodeUID(usr)
	token, err := svc.tokenGen.makeToken(usr)
	require.NoError(t, err)
	newPwd := "N3w&Improved!"

	_, err = svc.ResetPassword(ctx, ResetUserPassword{Token: "bad-token", UID: uid, Password: newPwd, PasswordConfirm: newPwd})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "token", vErr.Fields[0].Field)

	updated, err := svc.ResetPassword(ctx, ResetUserPassword{Token: token, UID: uid, Password: newPwd, PasswordConfirm: newPwd})
	require.NoError(t, err)
	assert.NoError(t, updated.CheckPassword(newPwd))

	// tokens are single use
	_, err = svc.ResetPassword(ctx, ResetUserPassword{Token: token, UID: uid, Password: goodPwd, PasswordConfirm: goodPwd})
	require.True(t, errors.As(err, &vErr))
}
