package imaging

import (
	"errors"
	"fmt"
)

// Common image decoding errors
var (
	// ErrEmptyImage is returned when the uploaded byte buffer is empty.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrUnknownFormat is returned when the bytes are not a recognizable
	// PNG or JPEG container.
	ErrUnknownFormat = errors.New("unrecognized image format (expected PNG or JPEG)")

	// ErrCorruptImage is returned when the container is recognized but the
	// pixel data is truncated or otherwise unreadable.
	ErrCorruptImage = errors.New("corrupted or truncated image data")
)

// DecodeError wraps errors with additional context about an image decoding failure.
type DecodeError struct {
	// Op is the operation that failed (e.g., "Decode", "WritePNG").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("imaging: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("imaging: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *DecodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDecodeError creates a new DecodeError with the specified operation and underlying error.
func NewDecodeError(op string, err error, details string) *DecodeError {
	return &DecodeError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
