package teacher

import "github.com/trezcool/ratiba/core"

// UnknownName is displayed in place of a teacher that does not exist (anymore).
const UnknownName = "Unknown"

type Teacher struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name           string `json:"name" validate:"notblank"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department" validate:"notblank"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone" validate:"omitempty,max=32"`
}

func (nt *NewTeacher) clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Department = core.CleanString(nt.Department)
	nt.Specialization = core.CleanString(nt.Specialization)
	nt.Phone = core.CleanString(nt.Phone)
}

func (nt NewTeacher) teacher(id string) Teacher {
	return Teacher{
		ID:             id,
		Name:           nt.Name,
		Email:          nt.Email,
		Department:     nt.Department,
		Specialization: nt.Specialization,
		Phone:          nt.Phone,
	}
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	Phone          *string `json:"phone"`
}

// Merge returns the NewTeacher resulting from applying ut over orig.
func (ut UpdateTeacher) Merge(orig Teacher) NewTeacher {
	nt := NewTeacher{
		Name:           orig.Name,
		Email:          orig.Email,
		Department:     orig.Department,
		Specialization: orig.Specialization,
		Phone:          orig.Phone,
	}
	if ut.Name != nil {
		nt.Name = *ut.Name
	}
	if ut.Email != nil {
		nt.Email = *ut.Email
	}
	if ut.Department != nil {
		nt.Department = *ut.Department
	}
	if ut.Specialization != nil {
		nt.Specialization = *ut.Specialization
	}
	if ut.Phone != nil {
		nt.Phone = *ut.Phone
	}
	return nt
}

// Directory resolves teacher ids for display.
type Directory map[string]Teacher

func NewDirectory(teachers []Teacher) Directory {
	d := make(Directory, len(teachers))
	for _, t := range teachers {
		d[t.ID] = t
	}
	return d
}

// NameOf returns the name of the teacher, or UnknownName for a dangling id.
func (d Directory) NameOf(id string) string {
	if t, ok := d[id]; ok && t.Name != "" {
		return t.Name
	}
	return UnknownName
}
