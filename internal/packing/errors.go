package packing

import (
	"errors"
	"fmt"
)

// ErrInvalidEntity is matched by every ValidationError so callers can test
// for the class of failure without inspecting the field.
var ErrInvalidEntity = errors.New("entity failed validation")

// ValidationError reports a non-positive field at entity construction.
type ValidationError struct {
	Entity string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s must be a positive number", e.Entity, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEntity
}
