// Package dashboard builds the role-specific timetable views shown to a logged-in user.
package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

type (
	SessionSource interface {
		QueryAll(ctx context.Context) ([]schedule.Session, error)
	}
	TeacherSource interface {
		QueryAll(ctx context.Context) ([]teacher.Teacher, error)
	}
	UserSource interface {
		QueryAll(ctx context.Context) ([]user.User, error)
	}

	// SessionView is a Session with its teacher's name resolved.
	SessionView struct {
		schedule.Session
		TeacherName string `json:"teacher_name"`
	}

	DayView struct {
		Day      schedule.Day  `json:"day"`
		Sessions []SessionView `json:"sessions"`
	}

	Stats struct {
		TotalUsers    int `json:"total_users"`
		TotalTeachers int `json:"total_teachers"`
		TotalClasses  int `json:"total_classes"`
		ActiveClasses int `json:"active_classes"`
	}

	View struct {
		Viewer  user.Viewer    `json:"viewer"`
		Scope   schedule.Scope `json:"scope"`
		Day     schedule.Day   `json:"day"`
		Time    schedule.Clock `json:"time"`
		Current *SessionView   `json:"current"`
		Today   []SessionView  `json:"today"`
		Week    []DayView      `json:"week"`
		Stats   *Stats         `json:"stats,omitempty"` // admins only
	}

	Service struct {
		sessions SessionSource
		teachers TeacherSource
		users    UserSource
	}
)

// ScopeFor maps a viewer to the sessions they get to see:
// students see their department, teachers their own sessions and admins everything.
// A viewer with an unknown role sees nothing.
func ScopeFor(v user.Viewer) schedule.Scope {
	switch v.Role {
	case user.RoleStudent:
		return schedule.DepartmentScope(v.Department)
	case user.RoleTeacher:
		return schedule.TeacherScope(v.ID)
	case user.RoleAdmin:
		return schedule.UnrestrictedScope("")
	default:
		return schedule.Scope{}
	}
}

func NewService(sessions SessionSource, teachers TeacherSource, users UserSource) *Service {
	return &Service{sessions: sessions, teachers: teachers, users: users}
}

// Directory returns the teacher names lookup.
func (svc *Service) Directory(ctx context.Context) (teacher.Directory, error) {
	teachers, err := svc.teachers.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teacher.NewDirectory(teachers), nil
}

// Build returns the dashboard of viewer at t.
func (svc *Service) Build(ctx context.Context, viewer user.Viewer, t time.Time) (View, error) {
	sessions, err := svc.sessions.QueryAll(ctx)
	if err != nil {
		return View{}, errors.Wrap(err, "querying sessions")
	}
	dir, err := svc.Directory(ctx)
	if err != nil {
		return View{}, err
	}

	at := schedule.InstantOf(t)
	scope := ScopeFor(viewer)
	view := View{
		Viewer: viewer,
		Scope:  scope,
		Day:    at.Day,
		Time:   at.Time,
		Today:  Decorate(schedule.Today(sessions, scope, at.Day), dir),
		Week:   DecorateWeek(schedule.Week(sessions, scope), dir),
	}
	if cur, ok := schedule.FindCurrent(sessions, scope, at); ok {
		sv := decorate(cur, dir)
		view.Current = &sv
	}

	if viewer.Role == user.RoleAdmin {
		users, err := svc.users.QueryAll(ctx)
		if err != nil {
			return View{}, errors.Wrap(err, "querying users")
		}
		view.Stats = &Stats{
			TotalUsers:    len(users),
			TotalTeachers: len(dir),
			TotalClasses:  len(sessions),
			ActiveClasses: schedule.CountActive(sessions, at),
		}
	}
	return view, nil
}

func decorate(s schedule.Session, dir teacher.Directory) SessionView {
	return SessionView{Session: s, TeacherName: dir.NameOf(s.TeacherID)}
}

// Decorate resolves the teacher names of sessions.
func Decorate(sessions []schedule.Session, dir teacher.Directory) []SessionView {
	res := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, decorate(s, dir))
	}
	return res
}

func DecorateWeek(week []schedule.DaySchedule, dir teacher.Directory) []DayView {
	res := make([]DayView, 0, len(week))
	for _, ds := range week {
		res = append(res, DayView{Day: ds.Day, Sessions: Decorate(ds.Sessions, dir)})
	}
	return res
}
