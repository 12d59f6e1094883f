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

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	CreateFn     func(ctx context.Context, category *domain.Category) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)
	UpdateFn     func(ctx context.Context, category *domain.Category) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	mu         sync.Mutex
	Categories map[uuid.UUID]*domain.Category
	// InUse reports whether items still reference a category. Delete
	// returns ErrCategoryInUse when it does.
	InUse func(id uuid.UUID) bool
}

// NewMockCategoryStore creates a new mock store with initialized defaults
func NewMockCategoryStore(categories ...*domain.Category) *MockCategoryStore {
	m := &MockCategoryStore{Categories: make(map[uuid.UUID]*domain.Category)}
	for _, c := range categories {
		cp := *c
		m.Categories[c.ID] = &cp
	}
	return m
}

// Create implements the store.CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(category) {
		return store.ErrCategoryNameExists
	}
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

func (m *MockCategoryStore) nameTaken(category *domain.Category) bool {
	for _, existing := range m.Categories {
		if existing.ID != category.ID && existing.UserID == category.UserID && existing.Name == category.Name {
			return true
		}
	}
	return false
}

// GetByID implements the store.CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.Categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	cp := *category
	return &cp, nil
}

// ListByUser implements the store.CategoryStore interface
func (m *MockCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Category{}
	for _, c := range m.Categories {
		if c.UserID == userID {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update implements the store.CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[category.ID]; !ok {
		return store.ErrCategoryNotFound
	}
	if m.nameTaken(category) {
		return store.ErrCategoryNameExists
	}
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

// Delete implements the store.CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.InUse != nil && m.InUse(id) {
		return store.ErrCategoryInUse
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return store.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// WithTx implements the store.CategoryStore interface
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
