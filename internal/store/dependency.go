package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// DependencyStore defines the interface for dependency edge persistence.
type DependencyStore interface {
	// GetByID retrieves an edge by its unique ID.
	// Returns ErrDependencyNotFound if the edge does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dependency, error)

	// FindBySourceItemID returns the edges leaving an item, i.e. its prerequisites.
	// Results are ordered by creation time so traversals are deterministic.
	FindBySourceItemID(ctx context.Context, sourceItemID uuid.UUID) ([]*domain.Dependency, error)

	// FindByTargetItemID returns the edges entering an item, i.e. its dependents.
	FindByTargetItemID(ctx context.Context, targetItemID uuid.UUID) ([]*domain.Dependency, error)

	// Create saves a new edge.
	// Returns ErrDependencyExists if the (source, target) pair is already stored
	// and ErrInvalidEntity if an endpoint does not exist or both are the same item.
	//
	// Callers must check for cycles first, inside the same transaction and
	// after LockUserGraph, so concurrent writers cannot commit a cycle.
	Create(ctx context.Context, dep *domain.Dependency) error

	// Delete removes an edge.
	// Returns ErrDependencyNotFound if the edge does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether the exact edge source→target is stored.
	Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error)

	// LockUserGraph serializes writers to one user's dependency graph until the
	// surrounding transaction ends. Must be called within a transaction.
	LockUserGraph(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new DependencyStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DependencyStore
}
