package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Parallel()

	err := NewServiceError("module", "reorder", "item 42", ErrCrossItemModule)
	assert.Equal(t,
		"module service reorder failed: item 42: module belongs to a different learning item",
		err.Error())
	assert.ErrorIs(t, err, ErrCrossItemModule)

	bare := NewServiceError("tag", "list", "no backend", nil)
	assert.Equal(t, "tag service list failed: no backend", bare.Error())
}

func TestWrapUnexpected(t *testing.T) {
	t.Parallel()

	passthrough := []error{
		ErrNotOwned,
		store.ErrModuleNotFound,
		store.ErrTagNameExists,
		store.ErrCategoryInUse,
		domain.NewValidationError("title", "cannot be empty", nil),
		&domain.InvalidTransitionError{Entity: "module", From: "Concluido", To: "Pendente"},
		NewServiceError("dependency", "add", "a -> b", ErrCircularDependency),
	}
	for _, err := range passthrough {
		assert.Same(t, err, wrapUnexpected("x", "op", err), "%v", err)
	}

	raw := errors.New("connection refused")
	wrapped := wrapUnexpected("learning item", "delete", raw)
	var svcErr *ServiceError
	assert.True(t, errors.As(wrapped, &svcErr))
	assert.Equal(t, "learning item", svcErr.Service)
	assert.Equal(t, "delete", svcErr.Operation)
	assert.ErrorIs(t, wrapped, raw)
}
