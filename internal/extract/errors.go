package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrMissingAPIKey is returned at construction time when no completion
	// API credential is configured. This is fatal: the service must not
	// accept traffic without one.
	ErrMissingAPIKey = errors.New("missing Mistral API key: set MISTRAL_API_KEY in your environment or .env file")

	// ErrUnreachable is returned when the completion endpoint cannot be
	// reached at all (timeout, connection refused, DNS failure).
	ErrUnreachable = errors.New("completion endpoint is unreachable")

	// ErrUpstream is returned when the completion endpoint answers with a
	// failure status.
	ErrUpstream = errors.New("completion endpoint returned an error")

	// ErrNoChoices is returned when the reply carries no completion choices.
	ErrNoChoices = errors.New("completion reply contains no choices")

	// ErrMalformedReply is returned when the assistant's message content
	// cannot be decoded as a JSON object.
	ErrMalformedReply = errors.New("completion content is not a JSON object")

	// ErrSchemaViolation is returned when the decoded object carries a
	// non-string, non-null value for one of the contact fields.
	ErrSchemaViolation = errors.New("completion JSON does not match the contact schema")
)

// ExtractionError wraps errors with additional context about a field
// extraction failure.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "ExtractContact", "DecodeReply").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractionError creates a new ExtractionError with the specified
// operation and underlying error.
func NewExtractionError(op string, err error, details string) *ExtractionError {
	return &ExtractionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
