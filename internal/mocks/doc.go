// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory so services can be exercised end
// to end without a database. Every method can be overridden through a function
// field, which is how tests inject failures:
//
//	items := mocks.NewMockLearningItemStore()
//	items.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
//	    return nil, errors.New("connection reset")
//	}
//
// MockTransactor runs transaction functions with a nil *sql.Tx, and the
// store mocks return themselves from WithTx, so writes made inside a
// "transaction" are visible immediately. Tests that need rollback semantics
// use the postgres integration tests instead.
package mocks
