package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Services return these (possibly wrapped); the HTTP layer
// maps them to status codes with errors.Is / errors.As.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidOtpCode     = errors.New("invalid otp code")
	ErrOtpExpired         = errors.New("otp code has expired")
	ErrPaymentRequired    = errors.New("approval fee payment required")
	ErrAlreadyPaid        = errors.New("approval fee already paid")
	ErrInvalidSignature   = errors.New("invalid event signature")
)

// ActiveLeaseError is returned when a tenant tries to open a second lease
// for a property while an earlier one is still in flight. It carries the
// existing lease id so the caller can resume instead of duplicating.
type ActiveLeaseError struct {
	LeaseID string
}

func (e *ActiveLeaseError) Error() string {
	return fmt.Sprintf("an active lease already exists for this property: %s", e.LeaseID)
}

func (e *ActiveLeaseError) Unwrap() error { return ErrPreconditionFailed }

// ValidationError reports malformed input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }
