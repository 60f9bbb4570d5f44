package models

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidEnumError is returned when a status/type string does not match any
// member of a closed enumeration.
type InvalidEnumError struct {
	Enum    string
	Value   string
	Allowed []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s: %q (must be one of: %s)", e.Enum, e.Value, strings.Join(e.Allowed, ", "))
}

// ValidationError is returned when a required entity field is absent or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err belongs to the validation class
// (enum membership failures included).
func IsValidation(err error) bool {
	var ve *ValidationError
	var ee *InvalidEnumError
	return errors.As(err, &ve) || errors.As(err, &ee)
}
