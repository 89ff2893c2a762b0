package schedule

import (
	"sort"
	"time"
)

// Instant is a point in the week, at minute precision.
type Instant struct {
	Day  Day
	Time Clock
}

// InstantOf returns the Instant of t in t's own location.
func InstantOf(t time.Time) Instant {
	return Instant{Day: DayOf(t), Time: ClockOf(t)}
}

// DaySchedule holds the sessions of one day, ordered by start time.
type DaySchedule struct {
	Day      Day       `json:"day"`
	Sessions []Session `json:"sessions"`
}

// IsActive reports whether s is running at `at`. Both ends of the session are inclusive.
func IsActive(s Session, at Instant) bool {
	return s.Day == at.Day && s.StartTime <= at.Time && at.Time <= s.EndTime
}

// Filter returns the sessions matching scope, in input order. The input is never modified.
func Filter(sessions []Session, scope Scope) []Session {
	res := make([]Session, 0)
	for _, s := range sessions {
		if scope.Matches(s) {
			res = append(res, s)
		}
	}
	return res
}

// FindCurrent returns the first session within scope that is active at `at`, in input order.
func FindCurrent(sessions []Session, scope Scope, at Instant) (Session, bool) {
	for _, s := range sessions {
		if scope.Matches(s) && IsActive(s, at) {
			return s, true
		}
	}
	return Session{}, false
}

// Today returns the sessions within scope scheduled on day, ordered by start time.
// Sessions starting at the same time keep their input order.
func Today(sessions []Session, scope Scope, day Day) []Session {
	res := make([]Session, 0)
	for _, s := range sessions {
		if s.Day == day && scope.Matches(s) {
			res = append(res, s)
		}
	}
	sortByStart(res)
	return res
}

// Week returns one DaySchedule per schedulable day, Monday to Saturday, empty days included.
func Week(sessions []Session, scope Scope) []DaySchedule {
	scoped := Filter(sessions, scope)
	week := make([]DaySchedule, len(Days))
	for i, day := range Days {
		week[i] = DaySchedule{Day: day, Sessions: make([]Session, 0)}
	}
	for _, s := range scoped {
		if i := s.Day.index(); i >= 0 {
			week[i].Sessions = append(week[i].Sessions, s)
		}
	}
	for i := range week {
		sortByStart(week[i].Sessions)
	}
	return week
}

// CountActive returns how many sessions are running at `at`, regardless of scope.
func CountActive(sessions []Session, at Instant) int {
	var n int
	for _, s := range sessions {
		if IsActive(s, at) {
			n++
		}
	}
	return n
}

func sortByStart(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime < sessions[j].StartTime
	})
}
