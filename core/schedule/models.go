package schedule

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// SessionType is the kind of teaching of a session.
type SessionType string

// Session types
const (
	Lecture  SessionType = "lecture"
	Lab      SessionType = "lab"
	Tutorial SessionType = "tutorial"
)

var SessionTypes = []SessionType{Lecture, Lab, Tutorial}

func (st SessionType) IsValid() bool {
	for _, t := range SessionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Session is one weekly class occurrence. TeacherID is a weak reference to a teacher.
type Session struct {
	ID         string      `json:"id"`
	Subject    string      `json:"subject"`
	TeacherID  string      `json:"teacher_id"`
	Room       string      `json:"room"`
	Day        Day         `json:"day"`
	StartTime  Clock       `json:"start_time"`
	EndTime    Clock       `json:"end_time"`
	Department string      `json:"department"`
	Type       SessionType `json:"type"`
}

func (s Session) Duration() time.Duration {
	return time.Duration(s.EndTime-s.StartTime) * time.Minute
}

// NewSession contains information needed to create a new Session.
type NewSession struct {
	Subject    string `json:"subject" validate:"notblank"`
	TeacherID  string `json:"teacher_id" validate:"notblank"`
	Room       string `json:"room" validate:"notblank"`
	Day        string `json:"day" validate:"required,weekday"`
	StartTime  string `json:"start_time" validate:"required,hhmm"`
	EndTime    string `json:"end_time" validate:"required,hhmm"`
	Department string `json:"department" validate:"notblank"`
	Type       string `json:"type" validate:"required,sessiontype"`
}

func (ns *NewSession) clean() {
	ns.Subject = core.CleanString(ns.Subject)
	ns.TeacherID = core.CleanString(ns.TeacherID)
	ns.Room = core.CleanString(ns.Room)
	if d, err := ParseDay(ns.Day); err == nil {
		ns.Day = string(d)
	}
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	ns.Department = core.CleanString(ns.Department)
	ns.Type = core.CleanString(ns.Type, true /* lower */)
}

// session converts a validated NewSession.
func (ns NewSession) session(id string) Session {
	start, _ := ParseClock(ns.StartTime)
	end, _ := ParseClock(ns.EndTime)
	return Session{
		ID:         id,
		Subject:    ns.Subject,
		TeacherID:  ns.TeacherID,
		Room:       ns.Room,
		Day:        Day(ns.Day),
		StartTime:  start,
		EndTime:    end,
		Department: ns.Department,
		Type:       SessionType(ns.Type),
	}
}

// UpdateSession defines what information may be provided to modify an existing Session.
// Nil fields are left untouched.
type UpdateSession struct {
	Subject    *string `json:"subject"`
	TeacherID  *string `json:"teacher_id"`
	Room       *string `json:"room"`
	Day        *string `json:"day"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Department *string `json:"department"`
	Type       *string `json:"type"`
}

// Merge returns the NewSession resulting from applying us over orig.
func (us UpdateSession) Merge(orig Session) NewSession {
	ns := NewSession{
		Subject:    orig.Subject,
		TeacherID:  orig.TeacherID,
		Room:       orig.Room,
		Day:        string(orig.Day),
		StartTime:  orig.StartTime.String(),
		EndTime:    orig.EndTime.String(),
		Department: orig.Department,
		Type:       string(orig.Type),
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&ns.Subject, us.Subject)
	set(&ns.TeacherID, us.TeacherID)
	set(&ns.Room, us.Room)
	set(&ns.Day, us.Day)
	set(&ns.StartTime, us.StartTime)
	set(&ns.EndTime, us.EndTime)
	set(&ns.Department, us.Department)
	set(&ns.Type, us.Type)
	return ns
}

// QueryFilter narrows the management list of sessions.
type QueryFilter struct {
	Search     string `query:"search"`
	Department string `query:"department"`
	Teacher    string `query:"teacher"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Department = core.CleanString(qf.Department)
	qf.Teacher = core.CleanString(qf.Teacher)
}
