package errors

import (
	"errors"
	"fmt"
)

// Engine error taxonomy, shared by services, validators and handlers.

var (
	// ErrInvalidArgument marks malformed or out-of-range request input.
	// Always client-fixable; never worth an automatic retry.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexUnavailable is returned while no index snapshot has been
	// published yet. Safe to retry after backoff.
	ErrIndexUnavailable = errors.New("search index not ready")

	// ErrUpstreamUnavailable marks a failed or timed-out call to the
	// external text-generation capability.
	ErrUpstreamUnavailable = errors.New("text generation backend unavailable")

	// ErrExamNotFound is returned for unknown or expired exam ids.
	ErrExamNotFound = errors.New("exam not found")

	// ErrInconsistent marks a cross-reference mismatch between index and
	// store. Callers log it and skip the offending entry; it never fails
	// a whole response on its own.
	ErrInconsistent = errors.New("index references a missing problem")
)

// ValidationError carries field-level detail for an invalid request. It
// wraps ErrInvalidArgument so handlers can map it with a single errors.Is.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", ve.Field, ve.Message)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}
