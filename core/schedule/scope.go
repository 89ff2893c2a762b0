package schedule

import "github.com/trezcool/ratiba/core"

// ScopeKind selects which sessions a Scope lets through.
type ScopeKind int

// Scope kinds. The zero ScopeKind matches nothing.
const (
	ByDepartment ScopeKind = iota + 1
	ByTeacher
	Unrestricted
)

func (k ScopeKind) String() string {
	switch k {
	case ByDepartment:
		return "department"
	case ByTeacher:
		return "teacher"
	case Unrestricted:
		return "unrestricted"
	default:
		return "none"
	}
}

func (k ScopeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ScopeKind) UnmarshalText(text []byte) error {
	for _, kind := range []ScopeKind{ByDepartment, ByTeacher, Unrestricted} {
		if string(text) == kind.String() {
			*k = kind
			return nil
		}
	}
	*k = 0
	return nil
}

// Scope is the filtering policy applied to the full session collection.
// Search, when set, further keeps sessions whose subject, room or department contains it (case-insensitive).
type Scope struct {
	Kind   ScopeKind `json:"kind"`
	Value  string    `json:"value,omitempty"`
	Search string    `json:"search,omitempty"`
}

func DepartmentScope(department string) Scope {
	return Scope{Kind: ByDepartment, Value: department}
}

func TeacherScope(teacherID string) Scope {
	return Scope{Kind: ByTeacher, Value: teacherID}
}

func UnrestrictedScope(search string) Scope {
	return Scope{Kind: Unrestricted, Search: core.CleanString(search)}
}

// WithSearch returns a copy of sc narrowed by search.
func (sc Scope) WithSearch(search string) Scope {
	sc.Search = core.CleanString(search)
	return sc
}

func (sc Scope) Matches(s Session) bool {
	var ok bool
	switch sc.Kind {
	case ByDepartment:
		ok = s.Department == sc.Value
	case ByTeacher:
		ok = s.TeacherID == sc.Value
	case Unrestricted:
		ok = true
	}
	return ok && core.ContainsFold(sc.Search, s.Subject, s.Room, s.Department)
}

// Scope returns the scope explicitly selected by the filter: teacher first, then department, else unrestricted.
func (qf QueryFilter) Scope() Scope {
	switch {
	case qf.Teacher != "":
		return TeacherScope(qf.Teacher).WithSearch(qf.Search)
	case qf.Department != "":
		return DepartmentScope(qf.Department).WithSearch(qf.Search)
	default:
		return UnrestrictedScope(qf.Search)
	}
}
