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

type tagLink struct {
	tagID  uuid.UUID
	itemID uuid.UUID
}

// MockTagStore implements store.TagStore for testing
type MockTagStore struct {
	CreateFn         func(ctx context.Context, tag *domain.Tag) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetByNameFn      func(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)
	ListByUserFn     func(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)
	ListByItemFn     func(ctx context.Context, itemID uuid.UUID) ([]*domain.Tag, error)
	AttachToItemFn   func(ctx context.Context, tagID, itemID uuid.UUID) error
	DetachFromItemFn func(ctx context.Context, tagID, itemID uuid.UUID) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Tags  map[uuid.UUID]*domain.Tag
	links map[tagLink]struct{}
}

// NewMockTagStore creates a new mock store with initialized defaults
func NewMockTagStore(tags ...*domain.Tag) *MockTagStore {
	m := &MockTagStore{
		Tags:  make(map[uuid.UUID]*domain.Tag),
		links: make(map[tagLink]struct{}),
	}
	for _, tag := range tags {
		m.Tags[tag.ID] = tag
	}
	return m
}

// IsAttached reports whether tagID is linked to itemID.
func (m *MockTagStore) IsAttached(tagID, itemID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.links[tagLink{tagID: tagID, itemID: itemID}]
	return ok
}

// Create implements the store.TagStore interface
func (m *MockTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tag)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	m.Tags[tag.ID] = tag
	return nil
}

// GetByID implements the store.TagStore interface
func (m *MockTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tag, ok := m.Tags[id]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	return tag, nil
}

// GetByName implements the store.TagStore interface
func (m *MockTagStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, userID, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range m.Tags {
		if tag.UserID == userID && tag.Name == name {
			return tag, nil
		}
	}
	return nil, store.ErrTagNotFound
}

// ListByUser implements the store.TagStore interface
func (m *MockTagStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Tag{}
	for _, tag := range m.Tags {
		if tag.UserID == userID {
			result = append(result, tag)
		}
	}
	sortTags(result)
	return result, nil
}

// ListByItem implements the store.TagStore interface
func (m *MockTagStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Tag, error) {
	if m.ListByItemFn != nil {
		return m.ListByItemFn(ctx, itemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Tag{}
	for link := range m.links {
		if link.itemID == itemID {
			if tag, ok := m.Tags[link.tagID]; ok {
				result = append(result, tag)
			}
		}
	}
	sortTags(result)
	return result, nil
}

func sortTags(tags []*domain.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}

// AttachToItem implements the store.TagStore interface
func (m *MockTagStore) AttachToItem(ctx context.Context, tagID, itemID uuid.UUID) error {
	if m.AttachToItemFn != nil {
		return m.AttachToItemFn(ctx, tagID, itemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[tagLink{tagID: tagID, itemID: itemID}] = struct{}{}
	return nil
}

// DetachFromItem implements the store.TagStore interface
func (m *MockTagStore) DetachFromItem(ctx context.Context, tagID, itemID uuid.UUID) error {
	if m.DetachFromItemFn != nil {
		return m.DetachFromItemFn(ctx, tagID, itemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	link := tagLink{tagID: tagID, itemID: itemID}
	if _, ok := m.links[link]; !ok {
		return store.ErrNotFound
	}
	delete(m.links, link)
	return nil
}

// Delete implements the store.TagStore interface
func (m *MockTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(m.Tags, id)
	for link := range m.links {
		if link.tagID == id {
			delete(m.links, link)
		}
	}
	return nil
}

// WithTx implements the store.TagStore interface
func (m *MockTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return m
}
