package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyFront is returned when a card spec has no front text.
	ErrEmptyFront = errors.New("card front cannot be empty")

	// ErrEmptyBack is returned when a card spec has no back text.
	ErrEmptyBack = errors.New("card back cannot be empty")
)

// ValidationError describes a validation failure on a specific field.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
