package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// ModuleOrderBy names a column modules can be sorted by.
type ModuleOrderBy string

// Sortable module columns.
const (
	ModuleOrderByPosition  ModuleOrderBy = "order"
	ModuleOrderByTitle     ModuleOrderBy = "title"
	ModuleOrderByCreatedAt ModuleOrderBy = "created_at"
	ModuleOrderByStatus    ModuleOrderBy = "status"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ModuleListOptions controls the ordering of FindByLearningItemID.
// The zero value sorts by position, ascending.
type ModuleListOptions struct {
	OrderBy ModuleOrderBy
	Order   SortDirection
}

// ModuleCounts is the completion tally of an item's modules.
// NextOrder is one past the highest sort order in use, or 0 for an item
// without modules. It can exceed Total once deletes leave gaps.
type ModuleCounts struct {
	Completed int
	Total     int
	NextOrder int
}

// ModuleStore defines the interface for module data persistence.
type ModuleStore interface {
	// GetByID retrieves a module by its unique ID.
	// Returns ErrModuleNotFound if the module does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error)

	// FindByLearningItemID returns the modules of an item in the requested order.
	// Unknown sort columns or directions return ErrInvalidEntity.
	FindByLearningItemID(
		ctx context.Context,
		learningItemID uuid.UUID,
		opts ModuleListOptions,
	) ([]*domain.Module, error)

	// Create saves a new module.
	// Returns ErrInvalidEntity if the owning item does not exist.
	Create(ctx context.Context, module *domain.Module) error

	// CreateMany saves several modules.
	// IMPORTANT: must run within a transaction so a failure leaves no partial batch.
	CreateMany(ctx context.Context, modules []*domain.Module) error

	// Update saves the title, status, order and updated_at of a module.
	// The owning item cannot change.
	// Returns ErrModuleNotFound if the module does not exist.
	Update(ctx context.Context, module *domain.Module) error

	// Delete removes a module.
	// Returns ErrModuleNotFound if the module does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder assigns new positions to modules of one item.
	// IMPORTANT: must run within a transaction. If any module does not belong
	// to the item, ErrModuleNotFound is returned and the caller must roll back.
	Reorder(ctx context.Context, learningItemID uuid.UUID, orders []domain.ModuleOrder) error

	// CountByLearningItemID returns how many of the item's modules are completed.
	CountByLearningItemID(ctx context.Context, learningItemID uuid.UUID) (ModuleCounts, error)

	// WithTx returns a new ModuleStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ModuleStore
}
