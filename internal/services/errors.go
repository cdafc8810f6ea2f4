package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all services. Handlers map these to HTTP status
// codes with errors.Is; services wrap them with context via %w.
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")

	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

	// ErrTokenRevoked marks a revocation attempt on an already-revoked
	// credential. It still fails authentication, but callers can tell the
	// two cases apart.
	ErrTokenRevoked = fmt.Errorf("token already revoked: %w", ErrAuthenticationFailed)
)

// ValidationErrors carries field-level failures alongside the
// ErrValidationFailed sentinel.
type ValidationErrors struct {
	Fields map[string]string
}

func (e *ValidationErrors) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	return fmt.Sprintf("%s: %d field errors", ErrValidationFailed.Error(), len(e.Fields))
}

func (e *ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) *ValidationErrors {
	return &ValidationErrors{Fields: map[string]string{field: message}}
}

// FieldErrors extracts the field map when err is a validation failure.
func FieldErrors(err error) map[string]string {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
