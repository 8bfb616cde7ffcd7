package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SampleColour string

func (c SampleColour) IsValid() bool { return c == "red" || c == "blue" }

type SampleContact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
}

type SampleForm struct {
	SampleContact
	Colour   SampleColour    `json:"colour" validate:"required,enum"`
	Handle   string          `json:"handle" validate:"omitempty,alphanum_"`
	Starts   Date            `json:"starts" validate:"required"`
	Contacts []SampleContact `json:"contacts" validate:"dive"`
}

func TestValidators(t *testing.T) {
	translator := NewTranslator()
	validate := NewValidator(translator)

	valid := SampleForm{
		SampleContact: SampleContact{Name: "Ada", Phone: "+44 (0)113 496 0000"},
		Colour:      "red",
		Handle:      "ada_lovelace",
		Starts:      NewDate(2024, 9, 2),
	}
	require.NoError(t, validate.Struct(valid))

	invalid := SampleForm{
		SampleContact: SampleContact{Phone: "call me"},
		Colour:      "green",
		Handle:      "ada!",
		Contacts:    []SampleContact{{Name: "Bob", Phone: "12"}},
	}
	err := validate.Struct(invalid)
	require.Error(t, err)

	errs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":              "this field is required",
		"phone":             "invalid phone number",
		"colour":            "invalid choice",
		"handle":            "only alphanumeric characters and underscores are allowed",
		"starts":            "this field is required",
		"contacts[0].phone": "invalid phone number",
	}, TranslateErrors(errs, translator))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Year One", CleanString("  Year One \n"))
	assert.Equal(t, "admin@school.test", CleanString(" Admin@School.test ", true))
}
