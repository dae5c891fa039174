package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrIdentityRequest = errors.New("identity request failed")
	ErrStore           = errors.New("store error")
	ErrTimeout         = errors.New("timeout")
	ErrStale           = errors.New("stale result")
)

// ErrorKind classifies an error for presentation on the view state.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation-error"
	KindIdentityRequest ErrorKind = "identity-request-error"
	KindStore           ErrorKind = "store-error"
	KindTimeout         ErrorKind = "timeout"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindStale           ErrorKind = "stale-result"
)

// KindOf maps an error chain to its ErrorKind. Timeouts win over the
// component they happened in. Unclassified errors are reported as store errors.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrStale):
		return KindStale
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrIdentityRequest):
		return KindIdentityRequest
	default:
		return KindStore
	}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
