package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Dependency validation errors
var (
	ErrDependencyIDEmpty       = errors.New("dependency ID cannot be empty")
	ErrDependencySourceIDEmpty = errors.New("dependency source item ID cannot be empty")
	ErrDependencyTargetIDEmpty = errors.New("dependency target item ID cannot be empty")

	// ErrSelfDependency is returned when an item is made to depend on itself.
	ErrSelfDependency = errors.New("an item cannot depend on itself")
)

// Dependency is a directed prerequisite edge: the source item requires the
// target item to be completed first. Pair uniqueness and acyclicity are
// enforced by the store and the dependency service, not by the entity.
type Dependency struct {
	ID           uuid.UUID `json:"id"`
	SourceItemID uuid.UUID `json:"source_item_id"`
	TargetItemID uuid.UUID `json:"target_item_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDependency creates an edge from sourceItemID to targetItemID.
func NewDependency(sourceItemID, targetItemID uuid.UUID) (*Dependency, error) {
	dep := &Dependency{
		ID:           uuid.New(),
		SourceItemID: sourceItemID,
		TargetItemID: targetItemID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := dep.Validate(); err != nil {
		return nil, err
	}

	return dep, nil
}

// Validate checks if the Dependency has valid data.
func (d *Dependency) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDependencyIDEmpty
	}
	if d.SourceItemID == uuid.Nil {
		return ErrDependencySourceIDEmpty
	}
	if d.TargetItemID == uuid.Nil {
		return ErrDependencyTargetIDEmpty
	}
	if d.SourceItemID == d.TargetItemID {
		return NewValidationError("target_item_id", ErrSelfDependency.Error(), ErrSelfDependency)
	}
	return nil
}
