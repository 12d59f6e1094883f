package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag.
	// Returns ErrTagNameExists if the user already has a tag with that name.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// GetByName retrieves a user's tag by its normalized name.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)

	// ListByUser returns the user's tags ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// ListByItem returns the tags attached to a learning item ordered by name.
	ListByItem(ctx context.Context, learningItemID uuid.UUID) ([]*domain.Tag, error)

	// AttachToItem links a tag to a learning item. Attaching twice is a no-op.
	AttachToItem(ctx context.Context, tagID, learningItemID uuid.UUID) error

	// DetachFromItem removes a tag from a learning item.
	// Returns ErrNotFound if the tag was not attached.
	DetachFromItem(ctx context.Context, tagID, learningItemID uuid.UUID) error

	// Delete removes a tag and all its item attachments.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
