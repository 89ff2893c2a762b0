package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	salt    = []byte("ratiba.core.user.token_gen")
	nowFunc = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// tokenGenerator makes and checks password reset tokens of the form "<issued at, base 36 unix time>-<signature>".
// The signature covers the user's password hash and last login, so a token stops working once either changes.
type tokenGenerator struct {
	secretKey []byte
	timeout   time.Duration
}

// EncodeUID encodes the user ID for use in a password reset link.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

func (g tokenGenerator) makeToken(usr User) (string, error) {
	return g.tokenAt(usr, nowFunc().Unix())
}

func (g tokenGenerator) verifyToken(usr User, token string) error {
	issued, _, ok := strings.Cut(token, "-")
	if !ok {
		return errInvalidToken
	}
	ts, err := strconv.ParseInt(issued, 36, 64)
	if err != nil {
		return errInvalidToken
	}

	want, err := g.tokenAt(usr, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 0 {
		return errInvalidToken
	}

	if nowFunc().Sub(time.Unix(ts, 0)) > g.timeout {
		return errTokenExpired
	}
	return nil
}

func (g tokenGenerator) tokenAt(usr User, ts int64) (string, error) {
	key := sha256.Sum256(append(append([]byte(nil), salt...), g.secretKey...))
	mac := hmac.New(sha256.New, key[:])

	fields := []string{usr.ID, string(usr.PasswordHash), strconv.FormatInt(ts, 10)}
	if !usr.LastLogin.IsZero() {
		fields = append(fields, usr.LastLogin.UTC().Format(time.RFC3339))
	}
	if _, err := mac.Write([]byte(strings.Join(fields, "|"))); err != nil {
		return "", err
	}
	return strconv.FormatInt(ts, 36) + "-" + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
