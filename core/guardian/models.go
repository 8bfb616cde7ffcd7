package guardian

import (
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

// Guardian is a parent or guardian, linked to pupils through PupilParentGuardian rows.
type Guardian struct {
	ID                  int64       `json:"id" db:"id"`
	FirstName           string      `json:"first_name" db:"first_name"`
	LastName            string      `json:"last_name" db:"last_name"`
	Address             string      `json:"address" db:"address"`
	PhoneNumber         string      `json:"phone_number" db:"phone_number"`
	Email               null.String `json:"email" db:"email"`
	RelationshipToPupil string      `json:"relationship_to_pupil" db:"relationship_to_pupil"`
	PupilCount          int         `json:"pupil_count" db:"pupil_count"`
}

func (g Guardian) FullName() string {
	return g.FirstName + " " + g.LastName
}

// MailAddress returns the guardian's email address, if any.
func (g Guardian) MailAddress() (mail.Address, bool) {
	if !g.Email.Valid || g.Email.String == "" {
		return mail.Address{}, false
	}
	return mail.Address{Name: g.FullName(), Address: g.Email.String}, true
}

// NewGuardian contains information needed to create a new Guardian.
type NewGuardian struct {
	FirstName           string `json:"first_name" validate:"required,max=64"`
	LastName            string `json:"last_name" validate:"required,max=64"`
	Address             string `json:"address" validate:"required"`
	PhoneNumber         string `json:"phone_number" validate:"required,phone"`
	Email               string `json:"email" validate:"omitempty,email,max=254"`
	RelationshipToPupil string `json:"relationship_to_pupil" validate:"max=32"`
}

func (ng *NewGuardian) Validate(validate *validator.Validate) error {
	ng.FirstName = core.CleanString(ng.FirstName)
	ng.LastName = core.CleanString(ng.LastName)
	ng.Address = core.CleanString(ng.Address)
	ng.PhoneNumber = core.CleanString(ng.PhoneNumber)
	ng.Email = core.CleanString(ng.Email, true /* lower */)
	ng.RelationshipToPupil = core.CleanString(ng.RelationshipToPupil)
	return validate.Struct(ng)
}

// UpdateGuardian replaces every editable field of a Guardian.
type UpdateGuardian NewGuardian

func (ug *UpdateGuardian) Validate(validate *validator.Validate) error {
	return (*NewGuardian)(ug).Validate(validate)
}

type QueryFilter struct {
	Search  string `query:"search"`
	PupilID int64  `query:"pupil_id"` // only guardians linked to this pupil
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
