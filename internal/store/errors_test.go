package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("lookup: %w", ErrNotFound), true},
		{"ErrModuleNotFound", ErrModuleNotFound, true},
		{"ErrDependencyNotFound", ErrDependencyNotFound, true},
		{"wrapped ErrLearningItemNotFound", fmt.Errorf("get: %w", ErrLearningItemNotFound), true},
		{"duplicate is not not-found", ErrDependencyExists, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrCategoryNameExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrDependencyExists)))
	assert.False(t, IsDuplicateError(ErrTagNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := NewStoreError("module", "reorder", "module not in item", ErrModuleNotFound)
	assert.Equal(t,
		"reorder operation on module failed: module not in item: entity not found: module",
		wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrNotFound)

	bare := NewStoreError("dependency", "create", "cycle", nil)
	assert.Equal(t, "create operation on dependency failed: cycle", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
