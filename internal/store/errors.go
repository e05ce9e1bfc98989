package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrCardNotFound indicates that the requested card does not exist in the store.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrSnapshotNotFound indicates that no persisted collection snapshot exists yet.
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Operation string // The operation that failed (e.g., "save_snapshot")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given operation, message, and wrapped error.
func NewStoreError(operation, message string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
