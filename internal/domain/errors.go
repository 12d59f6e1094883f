// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or value object fails validation.
	// It is usually wrapped by a *ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTransition is returned when a status change is not allowed
	// from the entity's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvariantViolation is returned when a caller breaks a domain invariant,
	// for example by reporting more completed modules than exist.
	ErrInvariantViolation = errors.New("invariant violation")
)

// ValidationError describes a field that failed validation.
type ValidationError struct {
	Field   string // Name of the invalid field
	Message string // Which rule was violated, including the offending value
	Err     error  // Underlying sentinel, usually ErrValidation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
// If err is nil the error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// InvalidTransitionError is returned when a status change is attempted that
// the entity's state machine does not allow.
type InvalidTransitionError struct {
	Entity string // "learning item" or "module"
	From   string
	To     string
}

// Error implements the error interface for InvalidTransitionError.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change %s status from %s to %s", e.Entity, e.From, e.To)
}

// Unwrap returns ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvariantViolationError reports a broken domain invariant. It indicates a
// caller or data bug and is never recoverable locally.
type InvariantViolationError struct {
	Rule   string
	Detail string
}

// Error implements the error interface for InvariantViolationError.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated: %s: %s", e.Rule, e.Detail)
}

// Unwrap returns ErrInvariantViolation.
func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}
