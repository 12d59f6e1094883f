// Package service provides application-level services that orchestrate the
// domain rules and the stores: dependencies, modules, learning items,
// categories and tags.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with the failing operation
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSelfDependency is returned when an item is proposed as its own prerequisite.
	// It is the same value as domain.ErrSelfDependency so either can be matched.
	ErrSelfDependency = domain.ErrSelfDependency

	// ErrCircularDependency is returned when a proposed edge would close a cycle.
	ErrCircularDependency = errors.New("would create a circular reference in the dependency chain")

	// ErrDuplicateDependency is returned when the exact edge already exists.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrCrossItemModule is returned when a module from another item is used
	// where modules of a single item are expected.
	ErrCrossItemModule = errors.New("module belongs to a different learning item")
)

// ServiceError is a custom error type for service errors that carries the
// operation that failed.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrapUnexpected passes expected conditions through untouched and wraps
// everything else in a ServiceError naming the operation.
func wrapUnexpected(service, operation string, err error) error {
	var svcErr *ServiceError
	switch {
	case errors.As(err, &svcErr),
		errors.Is(err, ErrNotOwned),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvariantViolation):
		return err
	}
	return NewServiceError(service, operation, "unexpected error", err)
}
