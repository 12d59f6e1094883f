package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/learning-tracker/internal/store"
)

// MockTransactor implements store.Transactor for testing
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	mu    sync.Mutex
	calls int
}

// RunInTransaction implements the store.Transactor interface
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// Calls returns how many transactions were started.
func (m *MockTransactor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
