package user

import (
	"context"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleNotAllowed     = errors.New("this role cannot be picked when registering")
)

type (
	Repository interface {
		// QueryAll returns every user in store order.
		QueryAll(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Create(ctx context.Context, usr User) (User, error)
		Update(ctx context.Context, usr User) (User, error)
		// UpdateLastLogin sets only the last login of the user with the given id.
		UpdateLastLogin(ctx context.Context, id string, at time.Time) error
		// Delete does not fail on a missing id.
		Delete(ctx context.Context, id string) error
	}

	ServiceOptions struct {
		SecretKey            string
		PasswordResetTimeout time.Duration
		FrontendBaseURL      string
	}

	Service struct {
		mu          sync.Mutex // held from the email check to the write
		repo        Repository
		validate    *validator.Validate
		mailSvc     core.EmailService
		tokenGen    tokenGenerator
		frontendURL string
	}
)

func NewService(repo Repository, validate *validator.Validate, mailSvc core.EmailService, opts ServiceOptions) *Service {
	return &Service{
		repo:        repo,
		validate:    validate,
		mailSvc:     mailSvc,
		tokenGen:    tokenGenerator{secretKey: []byte(opts.SecretKey), timeout: opts.PasswordResetTimeout},
		frontendURL: opts.FrontendBaseURL,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string) error {
	_, err := svc.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return errors.Wrap(err, "checking email uniqueness")
	}
}

// Create validates nu and stores the new User. Any role can be given.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	nu.clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}
	usr := User{
		Name:       nu.Name,
		Email:      nu.Email,
		Role:       nu.Role,
		StudentID:  nu.StudentID,
		Department: nu.Department,
		CreatedAt:  nowFunc().UTC(),
	}
	if usr.Role != RoleStudent {
		usr.StudentID = ""
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}
	return svc.repo.Create(ctx, usr)
}

// Register is Create for visitors: admins cannot be self-registered.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	role := core.CleanString(nu.Role, true /* lower */)
	if role == RoleAdmin {
		return User{}, core.NewValidationError(ErrRoleNotAllowed, core.FieldError{Field: "role", Error: ErrRoleNotAllowed.Error()})
	}
	return svc.Create(ctx, nu)
}

// Authenticate checks the credentials and records the login.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}

	usr.LastLogin = nowFunc().UTC()
	if err := svc.repo.UpdateLastLogin(ctx, usr.ID, usr.LastLogin); err != nil {
		return User{}, errors.Wrap(err, "recording login")
	}
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAll(ctx)
}

// Filter applies AND operation on available QueryFilter fields.
// QueryFilter.Search does a case-insensitive match on one of name, email, student id or department.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	users, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]User, 0, len(users))
	for _, u := range users {
		if filter.matches(u) {
			res = append(res, u)
		}
	}
	return res, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetByEmail(ctx, core.CleanString(email, true /* lower */))
}

// SetPassword changes the password without applying the password policy.
func (svc *Service) SetPassword(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.Update(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}

// RequestPasswordReset emails a password reset link to the user with the given email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := svc.tokenGen.makeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making password reset token")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Name":     usr.Name,
			"ResetURL": fmt.Sprintf("%s/password-reset/%s/%s", svc.frontendURL, EncodeUID(usr), token),
		},
	})
	return nil
}

// ResetPassword sets a new password if the reset token is valid.
func (svc *Service) ResetPassword(ctx context.Context, data ResetUserPassword) (User, error) {
	if err := svc.validate.Struct(data); err != nil {
		return User{}, err
	}
	invalid := core.NewValidationError(errInvalidToken, core.FieldError{Field: "token", Error: errInvalidToken.Error()})

	uid, err := decodeUID(data.UID)
	if err != nil {
		return User{}, invalid
	}
	usr, err := svc.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, invalid
		}
		return User{}, err
	}
	if err := svc.tokenGen.verifyToken(usr, data.Token); err != nil {
		return User{}, core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}
	return svc.SetPassword(ctx, usr, data.Password)
}
