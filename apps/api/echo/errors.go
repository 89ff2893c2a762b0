package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")

	notFoundErrs = []error{schedule.ErrNotFound, teacher.ErrNotFound, user.ErrNotFound}
)

// notFound returns the domain "not found" error err is about, if any.
func notFound(err error) (error, bool) {
	for _, nf := range notFoundErrs {
		if errors.Is(err, nf) {
			return nf, true
		}
	}
	return nil, false
}

// httpError maps err to a response status and message. Unknown errors are server errors.
func httpError(err error, translator ut.Translator) (int, interface{}) {
	var (
		httpErr  *echo.HTTPError
		tagErrs  validator.ValidationErrors
		inputErr *core.ValidationError
	)

	switch {
	case errors.As(err, &httpErr):
		if httpErr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, httpErr.Message
		}
		if inner, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = inner
		}
		return httpErr.Code, httpErr.Message

	case errors.As(err, &tagErrs):
		fields := make(map[string]string, len(tagErrs))
		for _, fe := range tagErrs {
			fields[fe.Field()] = fe.Translate(translator)
		}
		return http.StatusBadRequest, fields

	case errors.As(err, &inputErr):
		if fields := inputErr.FieldMap(); fields != nil {
			return http.StatusBadRequest, fields
		}
		return http.StatusBadRequest, inputErr.Error()
	}

	if nf, ok := notFound(err); ok {
		return http.StatusNotFound, nf.Error()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Server errors are reported with the context user; signalShutdown is called on a core shutdown error.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := httpError(err, translator)

		if code >= http.StatusInternalServerError {
			msg := http.StatusText(code)
			args := []interface{}{errors.Wrap(err, msg), map[string]interface{}{
				"method": ctx.Request().Method,
				"path":   ctx.Path(),
			}}
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				args = append(args, user.User{ID: claims.Subject, Name: claims.Name, Email: claims.Email, Role: claims.Role})
			}
			logger.Error(msg, args...)

			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
