package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the outcomes the HTTP layer has to tell apart.
var (
	ErrNotFound = errors.New("link not found")
	ErrGone     = errors.New("link expired")
	ErrCapacity = errors.New("short code space exhausted")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a short code or alias that is already taken.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("code %q is already taken", e.Code)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
