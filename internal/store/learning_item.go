package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// LearningItemStore defines the interface for learning item data persistence.
type LearningItemStore interface {
	// Create saves a new learning item.
	// Returns ErrInvalidEntity if the user or category does not exist.
	Create(ctx context.Context, item *domain.LearningItem) error

	// GetByID retrieves a learning item by its unique ID.
	// Returns ErrLearningItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// GetForUpdate retrieves a learning item and locks its row until the
	// surrounding transaction ends. Must be called within a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// ListByUser returns the user's learning items, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error)

	// UpdateStatus persists the item's status and updated_at timestamp.
	// The caller is responsible for validating the transition.
	UpdateStatus(ctx context.Context, item *domain.LearningItem) error

	// UpdateProgress persists the item's cached progress and updated_at timestamp.
	UpdateProgress(ctx context.Context, item *domain.LearningItem) error

	// Delete removes an item. Its modules, tag links and every dependency
	// touching it are removed by the database through ON DELETE CASCADE.
	// Returns ErrLearningItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LearningItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearningItemStore
}
