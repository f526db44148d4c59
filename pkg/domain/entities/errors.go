package entities

import (
	"errors"
	"fmt"
)

// ValidationError reports a problem with user-supplied input. It names the
// field that failed so the CLI can surface a precise message. Validation
// errors abort the current command only; they are never fatal.
type ValidationError struct {
	Field string
	Msg   string
}

// Error returns the user-facing message.
func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field: field,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
