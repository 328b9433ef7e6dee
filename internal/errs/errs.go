// Package errs holds the error kinds shared by stores, services and handlers.
package errs

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrAuthRequired        = errors.New("authentication required")
	ErrConflict            = errors.New("conflict")
	ErrExternalUnavailable = errors.New("external provider unavailable")
)

// FieldError names one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries per-field detail and unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a single-field validation error.
func Invalid(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// NotFound wraps ErrNotFound with the entity name, e.g. "book 42: not found".
func NotFound(entity string, key any) error {
	return errors.Wrapf(ErrNotFound, "%s %v", entity, key)
}
