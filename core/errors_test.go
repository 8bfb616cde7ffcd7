package core

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSaveFailed(t *testing.T) {
	errFull := errors.New("class is full")
	rule := NewRuleError(errFull, "class_id")
	notFound := NewNotFoundError("pupil")

	assert.Nil(t, SaveFailed("enroll", nil))
	assert.Same(t, rule, SaveFailed("enroll", rule))
	assert.Same(t, notFound, SaveFailed("enroll", notFound))

	wrapped := pkgerrors.Wrap(rule, "in tx")
	assert.Equal(t, wrapped, SaveFailed("enroll", wrapped))

	dbErr := errors.New("disk I/O error")
	err := SaveFailed("enroll", dbErr)
	var pErr *PersistenceError
	assert.True(t, errors.As(err, &pErr))
	assert.Equal(t, "enroll", pErr.Op)
	assert.ErrorIs(t, err, dbErr)

	assert.ErrorIs(t, rule, errFull)
	assert.Equal(t, "class is full", rule.Error())
	assert.Equal(t, "pupil not found", notFound.Error())
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(pkgerrors.Wrap(NewShutdownError("integrity issue"), "handler")))
	assert.False(t, IsShutdown(errors.New("integrity issue")))
}
