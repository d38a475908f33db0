package store

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrTableInit is returned when the backing table or its directory
	// cannot be created.
	ErrTableInit = errors.New("failed to initialize contact table")

	// ErrAppendFailed is returned when a row cannot be written durably.
	ErrAppendFailed = errors.New("failed to append contact row")

	// ErrReadFailed is returned when the table cannot be read back.
	ErrReadFailed = errors.New("failed to read contact table")

	// ErrBadHeader is returned when the existing table's header does not
	// match the fixed seven-column contact header.
	ErrBadHeader = errors.New("contact table has an unexpected header")
)

// StoreError wraps errors with additional context about a storage failure.
type StoreError struct {
	// Op is the operation that failed (e.g., "Append", "ReadAll").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("store: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new StoreError with the specified operation and underlying error.
func NewStoreError(op string, err error, details string) *StoreError {
	return &StoreError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
