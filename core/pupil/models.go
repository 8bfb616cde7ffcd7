package pupil

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
)

// RegistrationStatus is the admission state of a pupil's registration.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Pupil struct {
	ID                 int64              `json:"id" db:"id"`
	FirstName          string             `json:"first_name" db:"first_name"`
	LastName           string             `json:"last_name" db:"last_name"`
	DateOfBirth        core.Date          `json:"date_of_birth" db:"date_of_birth"`
	Address            string             `json:"address" db:"address"`
	MedicalInformation null.String        `json:"medical_information" db:"medical_information"`
	EnrollmentDate     core.Date          `json:"enrollment_date" db:"enrollment_date"`
	DinnerMoneyBalance core.Money         `json:"dinner_money_balance" db:"dinner_money_balance"`
	ClassID            int64              `json:"class_id" db:"class_id"`
	RegistrationID     int64              `json:"registration_id" db:"registration_id"`
	ClassName          string             `json:"class_name" db:"class_name"`
	RegistrationStatus RegistrationStatus `json:"registration_status" db:"registration_status"`
}

func (p Pupil) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Registration struct {
	ID                       int64              `json:"id" db:"id"`
	RegistrationDate         core.Date          `json:"registration_date" db:"registration_date"`
	Status                   RegistrationStatus `json:"status" db:"status"`
	ApplicationFormReference null.String        `json:"application_form_reference" db:"application_form_reference"`
	InterviewDate            *core.Date         `json:"interview_date" db:"interview_date"`
	EnrollmentDate           core.Date          `json:"enrollment_date" db:"enrollment_date"`
}

// LinkedGuardian is a guardian as seen from one pupil, with the relationship stored on the link.
type LinkedGuardian struct {
	guardian.Guardian
	RelationshipType string `json:"relationship_type" db:"relationship_type"`
}

// Enrollment is a pupil together with its registration and guardians.
type Enrollment struct {
	Pupil        Pupil            `json:"pupil"`
	Registration Registration     `json:"registration"`
	Guardians    []LinkedGuardian `json:"guardians"`
}

// Occupancy is a class's capacity and current head count.
type Occupancy struct {
	Capacity int `db:"capacity"`
	Enrolled int `db:"enrolled"`
}

func (o Occupancy) IsFull() bool {
	return o.Enrolled >= o.Capacity
}

// EnrollmentForm holds everything needed to create or update an Enrollment.
type EnrollmentForm struct {
	FirstName          string           `json:"first_name" validate:"required,max=64"`
	LastName           string           `json:"last_name" validate:"required,max=64"`
	DateOfBirth        core.Date        `json:"date_of_birth" validate:"required"`
	Address            string           `json:"address" validate:"required"`
	MedicalInformation string           `json:"medical_information"`
	EnrollmentDate     core.Date        `json:"enrollment_date" validate:"required"`
	DinnerMoneyBalance core.Money       `json:"dinner_money_balance" validate:"gte=0"`
	ClassID            int64            `json:"class_id" validate:"required,gt=0"`
	Registration       RegistrationForm `json:"registration"`
	Guardians          []GuardianEntry  `json:"guardians" validate:"min=1,max=2,dive"`
}

type RegistrationForm struct {
	RegistrationDate         core.Date          `json:"registration_date" validate:"required"`
	Status                   RegistrationStatus `json:"status" validate:"required,enum"`
	ApplicationFormReference string             `json:"application_form_reference" validate:"max=64"`
	InterviewDate            *core.Date         `json:"interview_date" validate:"required_if=Status approved"`
}

// GuardianEntry is one guardian submitted with an enrollment. A non-zero ID updates that
// guardian in place; otherwise a new guardian is created.
type GuardianEntry struct {
	ID               int64  `json:"id" validate:"gte=0"`
	FirstName        string `json:"first_name" validate:"required,max=64"`
	LastName         string `json:"last_name" validate:"required,max=64"`
	Address          string `json:"address"`
	PhoneNumber      string `json:"phone_number" validate:"required,phone"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	RelationshipType string `json:"relationship_type" validate:"max=32"`
}

func (e GuardianEntry) isBlank() bool {
	return e.ID == 0 && e.FirstName == "" && e.LastName == ""
}

func (e *GuardianEntry) clean() {
	e.FirstName = core.CleanString(e.FirstName)
	e.LastName = core.CleanString(e.LastName)
	e.Address = core.CleanString(e.Address)
	e.PhoneNumber = core.CleanString(e.PhoneNumber)
	e.Email = core.CleanString(e.Email, true /* lower */)
	e.RelationshipType = core.CleanString(e.RelationshipType)
}

// Validate cleans the form, applies defaults relative to today and validates it.
// Guardian entries without a name are dropped first.
func (f *EnrollmentForm) Validate(validate *validator.Validate, today core.Date) error {
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.Address = core.CleanString(f.Address)
	f.MedicalInformation = core.CleanString(f.MedicalInformation)
	if f.EnrollmentDate.IsZero() {
		f.EnrollmentDate = today
	}

	reg := &f.Registration
	reg.ApplicationFormReference = core.CleanString(reg.ApplicationFormReference)
	reg.Status = RegistrationStatus(core.CleanString(string(reg.Status), true /* lower */))
	if reg.Status == "" {
		reg.Status = StatusPending
	}
	if reg.RegistrationDate.IsZero() {
		reg.RegistrationDate = today
	}

	guardians := make([]GuardianEntry, 0, len(f.Guardians))
	for _, g := range f.Guardians {
		g.clean()
		if g.isBlank() {
			continue
		}
		guardians = append(guardians, g)
	}
	f.Guardians = guardians

	if err := validate.Struct(f); err != nil {
		return err
	}
	return f.checkDuplicateGuardians()
}

func (f *EnrollmentForm) checkDuplicateGuardians() error {
	seen := make(map[int64]bool, len(f.Guardians))
	for _, g := range f.Guardians {
		if g.ID == 0 {
			continue
		}
		if seen[g.ID] {
			return core.NewRuleError(ErrDuplicateGuardian, "guardians")
		}
		seen[g.ID] = true
	}
	return nil
}

func (f EnrollmentForm) registration() Registration {
	return Registration{
		RegistrationDate:         f.Registration.RegistrationDate,
		Status:                   f.Registration.Status,
		ApplicationFormReference: null.NewString(f.Registration.ApplicationFormReference, f.Registration.ApplicationFormReference != ""),
		InterviewDate:            f.Registration.InterviewDate,
		EnrollmentDate:           f.EnrollmentDate,
	}
}

func (f EnrollmentForm) pupil() Pupil {
	return Pupil{
		FirstName:          f.FirstName,
		LastName:           f.LastName,
		DateOfBirth:        f.DateOfBirth,
		Address:            f.Address,
		MedicalInformation: null.NewString(f.MedicalInformation, f.MedicalInformation != ""),
		EnrollmentDate:     f.EnrollmentDate,
		DinnerMoneyBalance: f.DinnerMoneyBalance,
		ClassID:            f.ClassID,
	}
}

type QueryFilter struct {
	Search  string `query:"search"`
	ClassID int64  `query:"class_id"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
