package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/dashboard"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/user"
)

type scheduleApi struct {
	svc       *schedule.Service
	dashboard *dashboard.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *schedule.Service, dash *dashboard.Service) {
	api := scheduleApi{svc: svc, dashboard: dash}

	g.GET("/dashboard", api.dashboardView, jwt)

	sg := g.Group("/schedule", jwt)
	sg.GET("/current", api.current)
	sg.GET("/today", api.today)
	sg.GET("/week", api.week)

	cg := g.Group("/classes", jwt)
	managers := roleMiddleware(user.RoleAdmin, user.RoleTeacher)
	cg.GET("", api.query)
	cg.GET("/conflicts", api.conflicts, roleMiddleware(user.RoleAdmin))
	cg.GET("/:id", api.retrieve)
	cg.POST("", api.create, managers)
	cg.PUT("/:id", api.update, managers)
	cg.DELETE("/:id", api.destroy, managers)
}

func (api *scheduleApi) dashboardView(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	at, err := bindInstant(ctx)
	if err != nil {
		return err
	}
	view, err := api.dashboard.Build(ctx.Request().Context(), claims.Viewer(), at)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *scheduleApi) current(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	at, err := bindInstant(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	s, ok, err := api.svc.Current(reqCtx, bindScope(ctx, claims), schedule.InstantOf(at))
	if err != nil {
		return errors.Wrap(err, "finding current class")
	}
	resp := CurrentResponse{}
	if ok {
		dir, err := api.dashboard.Directory(reqCtx)
		if err != nil {
			return errors.Wrap(err, "getting teacher directory")
		}
		views := dashboard.Decorate([]schedule.Session{s}, dir)
		resp.Current = &views[0]
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *scheduleApi) today(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	at, err := bindInstant(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	day := schedule.DayOf(at)
	sessions, err := api.svc.Today(reqCtx, bindScope(ctx, claims), day)
	if err != nil {
		return errors.Wrap(err, "listing today's classes")
	}
	dir, err := api.dashboard.Directory(reqCtx)
	if err != nil {
		return errors.Wrap(err, "getting teacher directory")
	}
	return ctx.JSON(http.StatusOK, dashboard.DayView{Day: day, Sessions: dashboard.Decorate(sessions, dir)})
}

func (api *scheduleApi) week(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	week, err := api.svc.Week(reqCtx, bindScope(ctx, claims))
	if err != nil {
		return errors.Wrap(err, "listing weekly classes")
	}
	dir, err := api.dashboard.Directory(reqCtx)
	if err != nil {
		return errors.Wrap(err, "getting teacher directory")
	}
	return ctx.JSON(http.StatusOK, dashboard.DecorateWeek(week, dir))
}

func (api *scheduleApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	sessions, err := api.svc.Filter(reqCtx, bindScope(ctx, claims))
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	dir, err := api.dashboard.Directory(reqCtx)
	if err != nil {
		return errors.Wrap(err, "getting teacher directory")
	}
	return ctx.JSON(http.StatusOK, dashboard.Decorate(sessions, dir))
}

func (api *scheduleApi) conflicts(ctx echo.Context) error {
	conflicts, err := api.svc.Conflicts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "finding conflicts")
	}
	return ctx.JSON(http.StatusOK, conflicts)
}

// retrieve only shows classes within the viewer's scope.
func (api *scheduleApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	s, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	if !dashboard.ScopeFor(claims.Viewer()).Matches(s) {
		return errors.Wrap(schedule.ErrNotFound, "class out of scope")
	}
	dir, err := api.dashboard.Directory(reqCtx)
	if err != nil {
		return errors.Wrap(err, "getting teacher directory")
	}
	return ctx.JSON(http.StatusOK, dashboard.Decorate([]schedule.Session{s}, dir)[0])
}

// create forces teachers to create their own classes.
func (api *scheduleApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data schedule.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if claims.IsTeacher() {
		data.TeacherID = claims.Subject
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, s)
}

// canManage reports whether the context user may change s: admins may change any class, teachers their own.
func canManage(claims Claims, s schedule.Session) bool {
	return claims.IsAdmin() || (claims.IsTeacher() && s.TeacherID == claims.Subject)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	s, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	if !canManage(claims, s) {
		return errHttpForbidden
	}

	var data schedule.UpdateSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSession")
	}
	if claims.IsTeacher() && data.TeacherID != nil {
		own := claims.Subject
		data.TeacherID = &own
	}

	s, err = api.svc.Update(reqCtx, s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, s)
}

// destroy succeeds on missing classes.
func (api *scheduleApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	s, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return ctx.NoContent(http.StatusNoContent)
	case err != nil:
		return errors.Wrap(err, "finding class by ID")
	}
	if !canManage(claims, s) {
		return errHttpForbidden
	}

	if err := api.svc.Delete(reqCtx, s.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type CurrentResponse struct {
	Current *dashboard.SessionView `json:"current"`
}
