package class

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

// Name is one of the fixed grade labels.
type Name string

const (
	Reception Name = "Reception"
	YearOne   Name = "Year One"
	YearTwo   Name = "Year Two"
	YearThree Name = "Year Three"
	YearFour  Name = "Year Four"
	YearFive  Name = "Year Five"
	YearSix   Name = "Year Six"
)

var Names = []Name{Reception, YearOne, YearTwo, YearThree, YearFour, YearFive, YearSix}

func (n Name) IsValid() bool {
	switch n {
	case Reception, YearOne, YearTwo, YearThree, YearFour, YearFive, YearSix:
		return true
	}
	return false
}

type Class struct {
	ID          int64       `json:"id" db:"id"`
	Name        Name        `json:"name" db:"name"`
	Capacity    int         `json:"capacity" db:"capacity"`
	PupilCount  int         `json:"pupil_count" db:"pupil_count"`
	TeacherID   null.Int64  `json:"teacher_id" db:"teacher_id"`
	TeacherName null.String `json:"teacher_name" db:"teacher_name"`
}

// IsFull reports whether no more pupils can be assigned.
func (c Class) IsFull() bool {
	return c.PupilCount >= c.Capacity
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name     Name `json:"name" validate:"required,enum"`
	Capacity int  `json:"capacity" validate:"required,gt=0"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = Name(core.CleanString(string(nc.Name)))
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name     Name `json:"name" validate:"omitempty,enum"`
	Capacity int  `json:"capacity" validate:"omitempty,gt=0"`
}

func (uc *UpdateClass) Validate(orig Class, validate *validator.Validate) error {
	name := Name(core.CleanString(string(uc.Name)))
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Capacity == 0 {
		uc.Capacity = orig.Capacity
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search         string `query:"search"`
	WithoutTeacher bool   `query:"without_teacher"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
