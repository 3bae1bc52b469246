package domain

import (
	"errors"
	"fmt"
)

// ValidationError marks a rejected player command: the room state is left
// untouched and nothing is broadcast. Callers treat it as a silent no-op.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a silent-reject validation failure, as
// opposed to a programmer error.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
