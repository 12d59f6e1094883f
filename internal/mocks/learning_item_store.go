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

// MockLearningItemStore implements store.LearningItemStore for testing.
// Items are stored and returned as copies, so a service must call an update
// method for a change to stick.
type MockLearningItemStore struct {
	CreateFn         func(ctx context.Context, item *domain.LearningItem) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	GetForUpdateFn   func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	ListByUserFn     func(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error)
	UpdateStatusFn   func(ctx context.Context, item *domain.LearningItem) error
	UpdateProgressFn func(ctx context.Context, item *domain.LearningItem) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Items map[uuid.UUID]*domain.LearningItem
	// OnDelete is called after a successful default Delete, letting tests
	// cascade into other mock stores.
	OnDelete func(id uuid.UUID)
}

// NewMockLearningItemStore creates a new mock store with initialized defaults
func NewMockLearningItemStore(items ...*domain.LearningItem) *MockLearningItemStore {
	m := &MockLearningItemStore{Items: make(map[uuid.UUID]*domain.LearningItem)}
	for _, item := range items {
		m.Put(item)
	}
	return m
}

// Put stores a copy of item, replacing any item with the same ID.
func (m *MockLearningItemStore) Put(item *domain.LearningItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.Items[item.ID] = &cp
}

// Get returns a copy of the stored item, or nil.
func (m *MockLearningItemStore) Get(id uuid.UUID) *domain.LearningItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return nil
	}
	cp := *item
	return &cp
}

// Create implements the store.LearningItemStore interface
func (m *MockLearningItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	m.Put(item)
	return nil
}

// GetByID implements the store.LearningItemStore interface
func (m *MockLearningItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if item := m.Get(id); item != nil {
		return item, nil
	}
	return nil, store.ErrLearningItemNotFound
}

// GetForUpdate implements the store.LearningItemStore interface
func (m *MockLearningItemStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// ListByUser implements the store.LearningItemStore interface
func (m *MockLearningItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.LearningItem{}
	for _, item := range m.Items {
		if item.UserID == userID {
			cp := *item
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateStatus implements the store.LearningItemStore interface
func (m *MockLearningItemStore) UpdateStatus(ctx context.Context, item *domain.LearningItem) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, item)
	}
	return m.update(item.ID, func(stored *domain.LearningItem) {
		stored.Status = item.Status
		stored.Progress = item.Progress
		stored.UpdatedAt = item.UpdatedAt
	})
}

// UpdateProgress implements the store.LearningItemStore interface
func (m *MockLearningItemStore) UpdateProgress(ctx context.Context, item *domain.LearningItem) error {
	if m.UpdateProgressFn != nil {
		return m.UpdateProgressFn(ctx, item)
	}
	return m.update(item.ID, func(stored *domain.LearningItem) {
		stored.Progress = item.Progress
		stored.UpdatedAt = item.UpdatedAt
	})
}

func (m *MockLearningItemStore) update(id uuid.UUID, apply func(*domain.LearningItem)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Items[id]
	if !ok {
		return store.ErrLearningItemNotFound
	}
	apply(stored)
	return nil
}

// Delete implements the store.LearningItemStore interface
func (m *MockLearningItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	if _, ok := m.Items[id]; !ok {
		m.mu.Unlock()
		return store.ErrLearningItemNotFound
	}
	delete(m.Items, id)
	m.mu.Unlock()

	if m.OnDelete != nil {
		m.OnDelete(id)
	}
	return nil
}

// WithTx implements the store.LearningItemStore interface
func (m *MockLearningItemStore) WithTx(tx *sql.Tx) store.LearningItemStore {
	return m
}
