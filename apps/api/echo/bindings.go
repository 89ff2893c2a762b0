package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/dashboard"
	"github.com/trezcool/ratiba/core/schedule"
)

var atParam = "at"

// bindInstant returns the time given by the `at` query param (RFC 3339), or now.
// The wall clock of the given offset is used to pick the day and time.
func bindInstant(ctx echo.Context) (time.Time, error) {
	val := ctx.QueryParam(atParam)
	if val == "" {
		return nowFunc(), nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: atParam, Error: "must be an RFC 3339 date-time"})
	}
	return t, nil
}

// bindScope returns the sessions scope of the request: the viewer's own scope, narrowed by `search`.
// Admins may pick a department or teacher scope explicitly.
func bindScope(ctx echo.Context, claims Claims) schedule.Scope {
	filter := schedule.QueryFilter{
		Search:     ctx.QueryParam("search"),
		Department: ctx.QueryParam("department"),
		Teacher:    ctx.QueryParam("teacher"),
	}
	filter.Clean()

	if claims.IsAdmin() {
		return filter.Scope()
	}
	return dashboard.ScopeFor(claims.Viewer()).WithSearch(filter.Search)
}
