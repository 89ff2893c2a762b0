package schedule

// Conflict is a pair of overlapping sessions sharing a room or a teacher.
type Conflict struct {
	First       Session `json:"first"`
	Second      Session `json:"second"`
	SameRoom    bool    `json:"same_room"`
	SameTeacher bool    `json:"same_teacher"`
}

// Overlaps reports whether a and b run at the same time on the same day.
// Sessions that only touch (one ends when the other starts) do not overlap.
func Overlaps(a, b Session) bool {
	return a.Day == b.Day && a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

func conflictOf(a, b Session) (Conflict, bool) {
	if !Overlaps(a, b) {
		return Conflict{}, false
	}
	c := Conflict{
		First:       a,
		Second:      b,
		SameRoom:    a.Room != "" && a.Room == b.Room,
		SameTeacher: a.TeacherID != "" && a.TeacherID == b.TeacherID,
	}
	return c, c.SameRoom || c.SameTeacher
}

// FindConflicts returns every conflicting pair, in input order.
func FindConflicts(sessions []Session) []Conflict {
	res := make([]Conflict, 0)
	for i := range sessions {
		for j := i + 1; j < len(sessions); j++ {
			if c, ok := conflictOf(sessions[i], sessions[j]); ok {
				res = append(res, c)
			}
		}
	}
	return res
}

// ConflictsWith returns the conflicts between candidate and the other sessions.
// A session with the candidate's id is skipped.
func ConflictsWith(candidate Session, sessions []Session) []Conflict {
	res := make([]Conflict, 0)
	for _, s := range sessions {
		if candidate.ID != "" && s.ID == candidate.ID {
			continue
		}
		if c, ok := conflictOf(s, candidate); ok {
			res = append(res, c)
		}
	}
	return res
}
