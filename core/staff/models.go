package staff

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

type BackgroundCheckStatus string

const (
	CheckPending  BackgroundCheckStatus = "pending"
	CheckComplete BackgroundCheckStatus = "complete"
	CheckFailed   BackgroundCheckStatus = "failed"
)

func (s BackgroundCheckStatus) IsValid() bool {
	switch s {
	case CheckPending, CheckComplete, CheckFailed:
		return true
	}
	return false
}

// Contact holds the personal details shared by teachers and teaching assistants.
type Contact struct {
	FirstName   string      `json:"first_name" db:"first_name"`
	LastName    string      `json:"last_name" db:"last_name"`
	Address     string      `json:"address" db:"address"`
	PhoneNumber string      `json:"phone_number" db:"phone_number"`
	Email       null.String `json:"email" db:"email"`
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// BackgroundCheck is a staff member's DBS check state.
type BackgroundCheck struct {
	BackgroundCheckStatus BackgroundCheckStatus `json:"background_check_status" db:"background_check_status"`
	BackgroundCheckDate   *core.Date            `json:"background_check_date" db:"background_check_date"`
}

type Teacher struct {
	ID int64 `json:"id" db:"id"`
	Contact
	AnnualSalary core.Money `json:"annual_salary" db:"annual_salary"`
	BackgroundCheck
	ClassID   null.Int64  `json:"class_id" db:"class_id"`
	ClassName null.String `json:"class_name" db:"class_name"`
}

type TeachingAssistant struct {
	ID int64 `json:"id" db:"id"`
	Contact
	HourlyRate core.Money `json:"hourly_rate" db:"hourly_rate"`
	BackgroundCheck
	Classes []AssignedClass `json:"classes" db:"-"`
}

// AssignedClass is a class a teaching assistant supports.
type AssignedClass struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ContactForm holds the validated personal details of a staff member.
type ContactForm struct {
	FirstName   string `json:"first_name" validate:"required,max=64"`
	LastName    string `json:"last_name" validate:"required,max=64"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
}

func (f *ContactForm) clean() {
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.Address = core.CleanString(f.Address)
	f.PhoneNumber = core.CleanString(f.PhoneNumber)
	f.Email = core.CleanString(f.Email, true /* lower */)
}

func (f ContactForm) contact() Contact {
	return Contact{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
		Email:       null.NewString(f.Email, f.Email != ""),
	}
}

// BackgroundCheckForm requires a check date once the check has concluded.
type BackgroundCheckForm struct {
	BackgroundCheckStatus BackgroundCheckStatus `json:"background_check_status" validate:"required,enum"`
	BackgroundCheckDate   *core.Date            `json:"background_check_date" validate:"required_unless=BackgroundCheckStatus pending"`
}

func (f *BackgroundCheckForm) clean() {
	f.BackgroundCheckStatus = BackgroundCheckStatus(core.CleanString(string(f.BackgroundCheckStatus), true /* lower */))
	if f.BackgroundCheckStatus == "" {
		f.BackgroundCheckStatus = CheckPending
	}
	if f.BackgroundCheckDate != nil && f.BackgroundCheckDate.IsZero() {
		f.BackgroundCheckDate = nil
	}
}

func (f BackgroundCheckForm) check() BackgroundCheck {
	return BackgroundCheck{
		BackgroundCheckStatus: f.BackgroundCheckStatus,
		BackgroundCheckDate:   f.BackgroundCheckDate,
	}
}

// TeacherForm is used to create or fully update a Teacher.
type TeacherForm struct {
	ContactForm
	AnnualSalary core.Money `json:"annual_salary" validate:"gt=0"`
	BackgroundCheckForm
	ClassID int64 `json:"class_id" validate:"gte=0"` // 0 leaves the teacher unassigned
}

func (f *TeacherForm) Validate(validate *validator.Validate) error {
	f.ContactForm.clean()
	f.BackgroundCheckForm.clean()
	return validate.Struct(f)
}

func (f TeacherForm) teacher() Teacher {
	return Teacher{
		Contact:         f.ContactForm.contact(),
		AnnualSalary:    f.AnnualSalary,
		BackgroundCheck: f.BackgroundCheckForm.check(),
		ClassID:         null.NewInt64(f.ClassID, f.ClassID != 0),
	}
}

// TeachingAssistantForm is used to create or fully update a TeachingAssistant.
// ClassIDs replaces the assistant's class assignments.
type TeachingAssistantForm struct {
	ContactForm
	HourlyRate core.Money `json:"hourly_rate" validate:"gt=0"`
	BackgroundCheckForm
	ClassIDs []int64 `json:"class_ids" validate:"dive,gt=0"`
}

func (f *TeachingAssistantForm) Validate(validate *validator.Validate) error {
	f.ContactForm.clean()
	f.BackgroundCheckForm.clean()

	seen := make(map[int64]bool, len(f.ClassIDs))
	ids := make([]int64, 0, len(f.ClassIDs))
	for _, id := range f.ClassIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	f.ClassIDs = ids
	return validate.Struct(f)
}

func (f TeachingAssistantForm) assistant() TeachingAssistant {
	return TeachingAssistant{
		Contact:         f.ContactForm.contact(),
		HourlyRate:      f.HourlyRate,
		BackgroundCheck: f.BackgroundCheckForm.check(),
	}
}

type QueryFilter struct {
	Search  string `query:"search"`
	ClassID int64  `query:"class_id"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
