package dberr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndError(t *testing.T) {
	err := New(Constraint, "duplicate value %d", 5)
	assert.Equal(t, "constraint: duplicate value 5", err.Error())
}

func TestWrapIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Storage, cause, "saving table %q", "users")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	cause := New(Schema, "table missing")
	wrapped := Wrap(Storage, cause, "loading table")
	assert.True(t, Is(cause, Schema))
	assert.False(t, Is(wrapped, Schema), "Is checks wrapped's own Kind, not its cause's")
	assert.True(t, Is(wrapped, Storage))
}

func TestIsFalseForNonDberrErrors(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), Parse))
}
