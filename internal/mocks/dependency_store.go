package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// MockDependencyStore implements store.DependencyStore for testing
type MockDependencyStore struct {
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Dependency, error)
	FindBySourceItemIDFn func(ctx context.Context, sourceItemID uuid.UUID) ([]*domain.Dependency, error)
	FindByTargetItemIDFn func(ctx context.Context, targetItemID uuid.UUID) ([]*domain.Dependency, error)
	CreateFn             func(ctx context.Context, dep *domain.Dependency) error
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
	ExistsFn             func(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error)
	LockUserGraphFn      func(ctx context.Context, userID uuid.UUID) error

	mu           sync.Mutex
	Dependencies map[uuid.UUID]*domain.Dependency
	// LockedUsers records every LockUserGraph call in order.
	LockedUsers []uuid.UUID
}

// NewMockDependencyStore creates a new mock store with initialized defaults
func NewMockDependencyStore(deps ...*domain.Dependency) *MockDependencyStore {
	m := &MockDependencyStore{Dependencies: make(map[uuid.UUID]*domain.Dependency)}
	for _, dep := range deps {
		m.Dependencies[dep.ID] = dep
	}
	return m
}

// Count returns the number of stored edges.
func (m *MockDependencyStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Dependencies)
}

// DeleteByItemID drops every edge touching an item, mirroring ON DELETE CASCADE.
func (m *MockDependencyStore) DeleteByItemID(itemID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, dep := range m.Dependencies {
		if dep.SourceItemID == itemID || dep.TargetItemID == itemID {
			delete(m.Dependencies, id)
		}
	}
}

// GetByID implements the store.DependencyStore interface
func (m *MockDependencyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dependency, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dep, ok := m.Dependencies[id]
	if !ok {
		return nil, store.ErrDependencyNotFound
	}
	return dep, nil
}

// FindBySourceItemID implements the store.DependencyStore interface
func (m *MockDependencyStore) FindBySourceItemID(
	ctx context.Context,
	sourceItemID uuid.UUID,
) ([]*domain.Dependency, error) {
	if m.FindBySourceItemIDFn != nil {
		return m.FindBySourceItemIDFn(ctx, sourceItemID)
	}
	return m.filter(func(d *domain.Dependency) bool { return d.SourceItemID == sourceItemID }), nil
}

// FindByTargetItemID implements the store.DependencyStore interface
func (m *MockDependencyStore) FindByTargetItemID(
	ctx context.Context,
	targetItemID uuid.UUID,
) ([]*domain.Dependency, error) {
	if m.FindByTargetItemIDFn != nil {
		return m.FindByTargetItemIDFn(ctx, targetItemID)
	}
	return m.filter(func(d *domain.Dependency) bool { return d.TargetItemID == targetItemID }), nil
}

func (m *MockDependencyStore) filter(keep func(*domain.Dependency) bool) []*domain.Dependency {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Dependency{}
	for _, dep := range m.Dependencies {
		if keep(dep) {
			result = append(result, dep)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Create implements the store.DependencyStore interface
func (m *MockDependencyStore) Create(ctx context.Context, dep *domain.Dependency) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, dep)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if dep.SourceItemID == dep.TargetItemID {
		return store.ErrInvalidEntity
	}
	for _, existing := range m.Dependencies {
		if existing.SourceItemID == dep.SourceItemID && existing.TargetItemID == dep.TargetItemID {
			return store.ErrDependencyExists
		}
	}
	m.Dependencies[dep.ID] = dep
	return nil
}

// Delete implements the store.DependencyStore interface
func (m *MockDependencyStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Dependencies[id]; !ok {
		return store.ErrDependencyNotFound
	}
	delete(m.Dependencies, id)
	return nil
}

// Exists implements the store.DependencyStore interface
func (m *MockDependencyStore) Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, sourceItemID, targetItemID)
	}
	found := m.filter(func(d *domain.Dependency) bool {
		return d.SourceItemID == sourceItemID && d.TargetItemID == targetItemID
	})
	return len(found) > 0, nil
}

// LockUserGraph implements the store.DependencyStore interface
func (m *MockDependencyStore) LockUserGraph(ctx context.Context, userID uuid.UUID) error {
	if m.LockUserGraphFn != nil {
		return m.LockUserGraphFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockedUsers = append(m.LockedUsers, userID)
	return nil
}

// WithTx implements the store.DependencyStore interface
func (m *MockDependencyStore) WithTx(tx *sql.Tx) store.DependencyStore {
	return m
}
