package records

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

// Stored records keep the camelCase keys of the original collections.

func str(r core.Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func timeOf(r core.Record, key string) (time.Time, error) {
	s := str(r, key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, errors.Wrapf(err, "parsing %s", key)
}

func timeStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func boilSession(s schedule.Session) core.Record {
	return core.Record{
		"subject":    s.Subject,
		"teacherId":  s.TeacherID,
		"room":       s.Room,
		"day":        string(s.Day),
		"startTime":  s.StartTime.String(),
		"endTime":    s.EndTime.String(),
		"department": s.Department,
		"type":       string(s.Type),
	}
}

func unboilSession(r core.Record) (schedule.Session, error) {
	start, err := schedule.ParseClock(str(r, "startTime"))
	if err != nil {
		return schedule.Session{}, errors.Wrapf(err, "class %s: startTime", r.ID())
	}
	end, err := schedule.ParseClock(str(r, "endTime"))
	if err != nil {
		return schedule.Session{}, errors.Wrapf(err, "class %s: endTime", r.ID())
	}
	return schedule.Session{
		ID:         r.ID(),
		Subject:    str(r, "subject"),
		TeacherID:  str(r, "teacherId"),
		Room:       str(r, "room"),
		Day:        schedule.Day(str(r, "day")),
		StartTime:  start,
		EndTime:    end,
		Department: str(r, "department"),
		Type:       schedule.SessionType(str(r, "type")),
	}, nil
}

func boilTeacher(t teacher.Teacher) core.Record {
	return core.Record{
		"name":           t.Name,
		"email":          t.Email,
		"department":     t.Department,
		"specialization": t.Specialization,
		"phone":          t.Phone,
	}
}

func unboilTeacher(r core.Record) teacher.Teacher {
	return teacher.Teacher{
		ID:             r.ID(),
		Name:           str(r, "name"),
		Email:          str(r, "email"),
		Department:     str(r, "department"),
		Specialization: str(r, "specialization"),
		Phone:          str(r, "phone"),
	}
}

func boilUser(u user.User) core.Record {
	return core.Record{
		"name":         u.Name,
		"email":        u.Email,
		"passwordHash": string(u.PasswordHash),
		"role":         u.Role,
		"studentId":    u.StudentID,
		"department":   u.Department,
		"createdAt":    timeStr(u.CreatedAt),
		"lastLogin":    timeStr(u.LastLogin),
	}
}

func unboilUser(r core.Record) (user.User, error) {
	createdAt, err := timeOf(r, "createdAt")
	if err != nil {
		return user.User{}, errors.Wrapf(err, "user %s", r.ID())
	}
	lastLogin, err := timeOf(r, "lastLogin")
	if err != nil {
		return user.User{}, errors.Wrapf(err, "user %s", r.ID())
	}
	return user.User{
		ID:           r.ID(),
		Name:         str(r, "name"),
		Email:        str(r, "email"),
		PasswordHash: []byte(str(r, "passwordHash")),
		Role:         str(r, "role"),
		StudentID:    str(r, "studentId"),
		Department:   str(r, "department"),
		CreatedAt:    createdAt,
		LastLogin:    lastLogin,
	}, nil
}
