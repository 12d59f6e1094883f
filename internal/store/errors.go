package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a category with the same name).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or violates
	// a database constraint. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInUse is returned when an entity cannot be deleted because other
	// entities still reference it.
	ErrInUse = errors.New("entity is still referenced")

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("%w: category", ErrNotFound)
	ErrTagNotFound          = fmt.Errorf("%w: tag", ErrNotFound)
	ErrLearningItemNotFound = fmt.Errorf("%w: learning item", ErrNotFound)
	ErrModuleNotFound       = fmt.Errorf("%w: module", ErrNotFound)
	ErrDependencyNotFound   = fmt.Errorf("%w: dependency", ErrNotFound)

	// Entity-specific "duplicate" errors

	ErrEmailExists        = fmt.Errorf("%w: email", ErrDuplicate)
	ErrCategoryNameExists = fmt.Errorf("%w: category name", ErrDuplicate)
	ErrTagNameExists      = fmt.Errorf("%w: tag name", ErrDuplicate)
	ErrDependencyExists   = fmt.Errorf("%w: dependency", ErrDuplicate)

	// ErrCategoryInUse is returned when deleting a category that still has items.
	ErrCategoryInUse = fmt.Errorf("%w: category has learning items", ErrInUse)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound, so one check covers them all.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "module", "dependency")
	Operation string // The operation that failed (e.g., "create", "reorder")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
