package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnverified       = errors.New("email not verified")
	ErrSynthesisTimeout = errors.New("synthesis timeout")
	ErrProviderFailure  = errors.New("provider failure")
	ErrBusy             = errors.New("generation capacity saturated")
	ErrPersistence      = errors.New("persistence failure")
)

// ValidationError reports malformed request input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// QuotaExceededError reports that the monthly generation cap was reached.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly generation limit of %d reached", e.Limit)
}
