package core

import (
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries field errors and business-rule violations.
// Err is the underlying rule (a package sentinel) so callers can match it with errors.Is.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewRuleError reports a broken business rule on field, using err's text as the message.
func NewRuleError(err error, field string) error {
	return &ValidationError{Err: err, Fields: []FieldError{{Field: field, Error: err.Error()}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

// PersistenceError wraps a failed write. Op names the workflow; Err is the cause, for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (err PersistenceError) Error() string {
	return "save failed: " + err.Op + ": " + err.Err.Error()
}

func (err PersistenceError) Unwrap() error { return err.Err }

// SaveFailed turns a transaction failure into a PersistenceError, letting validation and
// not-found errors raised inside the transaction through unchanged.
func SaveFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	switch errors.Cause(err).(type) {
	case *ValidationError, *NotFoundError, *PersistenceError:
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
