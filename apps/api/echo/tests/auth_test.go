package tests

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core/user"
)

const goodPwd = "Tr0ub4dor&3x"

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, echoapi.LoginRequest{Email: "admin@college.edu", Password: "nope"}),
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown email", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, echoapi.LoginRequest{Email: "nobody@college.edu", Password: "admin123"}),
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "email is case-insensitive", wantCode: http.StatusOK,
			body: marshallObj(t, echoapi.LoginRequest{Email: "  Alice@Student.EDU ", Password: "student123"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/auth/login"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp struct {
					Token string    `json:"token"`
					User  user.User `json:"user"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, app.student.ID, resp.User.ID)
				assert.False(t, resp.User.LastLogin.IsZero())
			}
		})
	}
}

func Test_authApi_loginTokenGrantsAccess(t *testing.T) {
	app := setup(t)

	rec := app.do(httpTest{
		method: http.MethodPost, path: "/v1/auth/login",
		body: marshallObj(t, echoapi.LoginRequest{Email: "john.smith@college.edu", Password: "teacher123"}),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = app.do(httpTest{method: http.MethodGet, path: "/v1/users/me", token: resp.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "2", me.ID)
	assert.Equal(t, user.RoleTeacher, me.Role)
}

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	newUser := func(email, role, department string) []byte {
		return marshallObj(t, user.NewUser{
			Name:            "Bob Martin",
			Email:           email,
			Password:        goodPwd,
			PasswordConfirm: goodPwd,
			Role:            role,
			StudentID:       "CS2026042",
			Department:      department,
		})
	}

	tests := []httpTest{
		{
			name: "student", wantCode: http.StatusCreated,
			body: newUser("bob@student.edu", user.RoleStudent, "Computer Science"),
		},
		{
			name: "duplicate email", wantCode: http.StatusBadRequest,
			body:     newUser("ALICE@student.edu", user.RoleStudent, "Computer Science"),
			wantData: marshallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name: "admins cannot self-register", wantCode: http.StatusBadRequest,
			body:     newUser("boss@college.edu", user.RoleAdmin, ""),
			wantData: marshallObj(t, map[string]string{"role": user.ErrRoleNotAllowed.Error()}),
		},
		{
			name: "department required", wantCode: http.StatusBadRequest,
			body:     newUser("bob2@student.edu", user.RoleTeacher, " "),
			wantData: marshallObj(t, map[string]string{"department": "this field is required"}),
		},
		{
			name: "unknown role", wantCode: http.StatusBadRequest,
			body:     newUser("bob3@student.edu", "janitor", "Computer Science"),
			wantData: marshallObj(t, map[string]string{"role": "invalid role"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/auth/register"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the new student can log in
	rec := app.do(httpTest{
		method: http.MethodPost, path: "/v1/auth/login",
		body: marshallObj(t, echoapi.LoginRequest{Email: "bob@student.edu", Password: goodPwd}),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)

	signed := func(claims *echoapi.Claims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.conf.SecretKey))
		require.NoError(t, err)
		return token
	}
	now := time.Now()
	claimsOf := func(sub string, origIat time.Time) *echoapi.Claims {
		return &echoapi.Claims{
			StandardClaims: jwt.StandardClaims{
				Issuer:    app.conf.AppName,
				Subject:   sub,
				ExpiresAt: now.Add(app.conf.Server.JWTExpirationDelta).Unix(),
				IssuedAt:  now.Unix(),
			},
			OrigIssuedAt: origIat.Unix(),
			Role:         user.RoleStudent,
		}
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "bad signature", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIzIn0.bm9wZQ", wantCode: http.StatusUnauthorized,
		},
		{
			name:  "refresh period expired",
			token: signed(claimsOf(app.student.ID, now.Add(-2*app.conf.Server.JWTRefreshExpirationDelta))), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{
			name: "deleted user", token: signed(claimsOf("404", now)), wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{name: "token refreshed", token: app.getToken(t, app.student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/auth/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				var resp echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_authApi_passwordReset(t *testing.T) {
	app := setup(t)
	successData := marshallObj(t, echoapi.SuccessResponse{
		Success: "If the email address supplied is associated with an account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})

	tests := []struct {
		httpTest
		wantSent bool
	}{
		{httpTest: httpTest{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, echoapi.PasswordResetRequest{Email: "this field is required"}),
		}},
		{httpTest: httpTest{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marshallObj(t, echoapi.PasswordResetRequest{Email: "email must be a valid email address"}),
		}},
		{httpTest: httpTest{
			name: "unknown email", wantCode: http.StatusOK, wantData: successData,
			body: marshallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.com"}),
		}},
		{httpTest: httpTest{
			name: "known email", wantCode: http.StatusOK, wantData: successData,
			body: marshallObj(t, echoapi.PasswordResetRequest{Email: app.student.Email}),
		}, wantSent: true},
	}
	linkRegex := regexp.MustCompile(`/password-reset/([^/\s]+)/([^/\s]+)`)

	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/auth/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			app.mailSvc.Reset()
			rec := app.do(tt.httpTest)
			checkCodeAndData(t, tt.httpTest, rec)

			sent := app.mailSvc.SentMessages()
			if !tt.wantSent {
				assert.Empty(t, sent)
				return
			}
			require.Len(t, sent, 1)
			assert.Equal(t, app.student.Email, sent[0].To[0].Address)

			// follow the link
			match := linkRegex.FindStringSubmatch(sent[0].TextContent)
			require.Len(t, match, 3)
			confirm := httpTest{
				method: http.MethodPost, path: "/v1/auth/password-reset-confirm",
				body: marshallObj(t, user.ResetUserPassword{
					UID: match[1], Token: match[2], Password: goodPwd, PasswordConfirm: goodPwd,
				}),
			}
			rec = app.do(confirm)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			// the token is single use
			rec = app.do(confirm)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			rec = app.do(httpTest{
				method: http.MethodPost, path: "/v1/auth/login",
				body: marshallObj(t, echoapi.LoginRequest{Email: app.student.Email, Password: goodPwd}),
			})
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
