package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// MockModuleStore implements store.ModuleStore for testing
type MockModuleStore struct {
	GetByIDFn               func(ctx context.Context, id uuid.UUID) (*domain.Module, error)
	FindByLearningItemIDFn  func(ctx context.Context, itemID uuid.UUID, opts store.ModuleListOptions) ([]*domain.Module, error)
	CreateFn                func(ctx context.Context, module *domain.Module) error
	CreateManyFn            func(ctx context.Context, modules []*domain.Module) error
	UpdateFn                func(ctx context.Context, module *domain.Module) error
	DeleteFn                func(ctx context.Context, id uuid.UUID) error
	ReorderFn               func(ctx context.Context, itemID uuid.UUID, orders []domain.ModuleOrder) error
	CountByLearningItemIDFn func(ctx context.Context, itemID uuid.UUID) (store.ModuleCounts, error)

	mu      sync.Mutex
	Modules map[uuid.UUID]*domain.Module
}

// NewMockModuleStore creates a new mock store with initialized defaults
func NewMockModuleStore(modules ...*domain.Module) *MockModuleStore {
	m := &MockModuleStore{Modules: make(map[uuid.UUID]*domain.Module)}
	for _, module := range modules {
		m.Put(module)
	}
	return m
}

// Put stores a copy of module.
func (m *MockModuleStore) Put(module *domain.Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *module
	m.Modules[module.ID] = &cp
}

// Get returns a copy of the stored module, or nil.
func (m *MockModuleStore) Get(id uuid.UUID) *domain.Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	module, ok := m.Modules[id]
	if !ok {
		return nil
	}
	cp := *module
	return &cp
}

// DeleteByLearningItemID drops every module of an item, mirroring ON DELETE CASCADE.
func (m *MockModuleStore) DeleteByLearningItemID(itemID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, module := range m.Modules {
		if module.LearningItemID == itemID {
			delete(m.Modules, id)
		}
	}
}

// GetByID implements the store.ModuleStore interface
func (m *MockModuleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if module := m.Get(id); module != nil {
		return module, nil
	}
	return nil, store.ErrModuleNotFound
}

// FindByLearningItemID implements the store.ModuleStore interface
func (m *MockModuleStore) FindByLearningItemID(
	ctx context.Context,
	itemID uuid.UUID,
	opts store.ModuleListOptions,
) ([]*domain.Module, error) {
	if m.FindByLearningItemIDFn != nil {
		return m.FindByLearningItemIDFn(ctx, itemID, opts)
	}

	less, err := moduleLess(opts.OrderBy)
	if err != nil {
		return nil, err
	}
	desc := false
	switch opts.Order {
	case "", store.SortAsc:
	case store.SortDesc:
		desc = true
	default:
		return nil, store.ErrInvalidEntity
	}

	m.mu.Lock()
	result := []*domain.Module{}
	for _, module := range m.Modules {
		if module.LearningItemID == itemID {
			cp := *module
			result = append(result, &cp)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(result, func(i, j int) bool {
		if desc {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})
	return result, nil
}

func moduleLess(by store.ModuleOrderBy) (func(a, b *domain.Module) bool, error) {
	switch by {
	case "", store.ModuleOrderByPosition:
		return func(a, b *domain.Module) bool { return a.Order < b.Order }, nil
	case store.ModuleOrderByTitle:
		return func(a, b *domain.Module) bool { return strings.Compare(a.Title, b.Title) < 0 }, nil
	case store.ModuleOrderByCreatedAt:
		return func(a, b *domain.Module) bool { return a.CreatedAt.Before(b.CreatedAt) }, nil
	case store.ModuleOrderByStatus:
		return func(a, b *domain.Module) bool { return a.Status < b.Status }, nil
	default:
		return nil, store.ErrInvalidEntity
	}
}

// Create implements the store.ModuleStore interface
func (m *MockModuleStore) Create(ctx context.Context, module *domain.Module) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, module)
	}
	m.Put(module)
	return nil
}

// CreateMany implements the store.ModuleStore interface
func (m *MockModuleStore) CreateMany(ctx context.Context, modules []*domain.Module) error {
	if m.CreateManyFn != nil {
		return m.CreateManyFn(ctx, modules)
	}
	for _, module := range modules {
		m.Put(module)
	}
	return nil
}

// Update implements the store.ModuleStore interface
func (m *MockModuleStore) Update(ctx context.Context, module *domain.Module) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, module)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Modules[module.ID]
	if !ok {
		return store.ErrModuleNotFound
	}
	stored.Title = module.Title
	stored.Status = module.Status
	stored.Order = module.Order
	stored.UpdatedAt = module.UpdatedAt
	return nil
}

// Delete implements the store.ModuleStore interface
func (m *MockModuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Modules[id]; !ok {
		return store.ErrModuleNotFound
	}
	delete(m.Modules, id)
	return nil
}

// Reorder implements the store.ModuleStore interface. Unlike the database,
// it validates the whole batch before applying any position.
func (m *MockModuleStore) Reorder(ctx context.Context, itemID uuid.UUID, orders []domain.ModuleOrder) error {
	if m.ReorderFn != nil {
		return m.ReorderFn(ctx, itemID, orders)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range orders {
		module, ok := m.Modules[o.ID]
		if !ok || module.LearningItemID != itemID {
			return store.NewStoreError("module", "reorder", "module is not part of item", store.ErrModuleNotFound)
		}
	}
	for _, o := range orders {
		m.Modules[o.ID].Order = o.Order
	}
	return nil
}

// CountByLearningItemID implements the store.ModuleStore interface
func (m *MockModuleStore) CountByLearningItemID(ctx context.Context, itemID uuid.UUID) (store.ModuleCounts, error) {
	if m.CountByLearningItemIDFn != nil {
		return m.CountByLearningItemIDFn(ctx, itemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var counts store.ModuleCounts
	for _, module := range m.Modules {
		if module.LearningItemID != itemID {
			continue
		}
		counts.Total++
		if module.Order >= counts.NextOrder {
			counts.NextOrder = module.Order + 1
		}
		if module.IsCompleted() {
			counts.Completed++
		}
	}
	return counts, nil
}

// WithTx implements the store.ModuleStore interface
func (m *MockModuleStore) WithTx(tx *sql.Tx) store.ModuleStore {
	return m
}
