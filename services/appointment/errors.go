package appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict means the slot is taken, whichever layer noticed it.
	ErrConflict = errors.New("this time is no longer available")
	// ErrNotFound means the referenced appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
)

// ValidationError is a client-correctable input problem.
type ValidationError struct {
	Message string
	// Field is set when the failure is a missing required field.
	Field string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Missing reports whether the error is a missing required field.
func (e *ValidationError) Missing() bool {
	return e.Field != ""
}

func missingField(name string) error {
	return &ValidationError{Message: fmt.Sprintf("missing field: %s", name), Field: name}
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
