package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category.
	// Returns ErrCategoryNameExists if the user already has a category with that name.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// ListByUser returns the user's categories ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// Update saves the name and color of an existing category.
	// Returns ErrCategoryNotFound if the category does not exist and
	// ErrCategoryNameExists if the new name collides with another category.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category.
	// Returns ErrCategoryNotFound if the category does not exist and
	// ErrCategoryInUse while learning items still reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
