package services

import (
	"errors"

	apperrors "github.com/tokiwa-akira/gkentei/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

// Re-exported from the shared errors package so callers of the services
// layer have a single import.
var (
	ErrInvalidArgument     = apperrors.ErrInvalidArgument
	ErrIndexUnavailable    = apperrors.ErrIndexUnavailable
	ErrUpstreamUnavailable = apperrors.ErrUpstreamUnavailable
	ErrExamNotFound        = apperrors.ErrExamNotFound
	ErrInconsistent        = apperrors.ErrInconsistent
)

// Use shared validation errors from the errors package.
type ValidationError = apperrors.ValidationError

// NewValidationError creates a new validation error using the shared type.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsInvalidArgument checks for client-input errors.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnavailable checks for retry-after-backoff dependency errors.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrIndexUnavailable)
}

// IsUpstreamUnavailable checks for external-capability failures.
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsNotFound checks for unknown or expired resources.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExamNotFound)
}
