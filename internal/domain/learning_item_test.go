package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *LearningItem {
	t.Helper()
	item, err := NewLearningItem(uuid.New(), uuid.New(), "Designing Data-Intensive Applications", ItemKindBook)
	require.NoError(t, err)
	return item
}

func TestNewLearningItem(t *testing.T) {
	t.Parallel()
	item := newTestItem(t)

	assert.Equal(t, ItemStatusBacklog, item.Status)
	assert.Equal(t, ZeroProgress, item.Progress)
	assert.Equal(t, ItemKindBook, item.Kind)

	_, err := NewLearningItem(uuid.New(), uuid.Nil, "Title", ItemKindCourse)
	assert.Equal(t, ErrLearningItemCategoryIDEmpty, err)

	_, err = NewLearningItem(uuid.New(), uuid.New(), "Title", "podcast")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewLearningItem(uuid.New(), uuid.New(), " ", ItemKindCourse)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLearningItemUpdateStatus(t *testing.T) {
	t.Parallel()
	item := newTestItem(t)

	require.NoError(t, item.UpdateStatus(ItemStatusBacklog), "backlog accepts itself")
	require.NoError(t, item.UpdateStatus(ItemStatusInProgress))
	require.NoError(t, item.UpdateStatus(ItemStatusPaused))
	require.NoError(t, item.UpdateStatus(ItemStatusInProgress))

	err := item.UpdateStatus(ItemStatusBacklog)
	var tErr *InvalidTransitionError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "Em_Andamento", tErr.From)
	assert.Equal(t, "Backlog", tErr.To)

	require.NoError(t, item.UpdateStatus(ItemStatusDone))
	assert.True(t, item.Progress.IsComplete(), "completing pins progress at 100")

	for _, next := range ItemStatuses {
		assert.ErrorIs(t, item.UpdateStatus(next), ErrInvalidTransition, "Concluido -> %s", next)
	}
}

func TestLearningItemRefreshProgress(t *testing.T) {
	t.Parallel()
	item := newTestItem(t)

	changed, err := item.RefreshProgress(3, 4)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 75.0, item.Progress.Value())

	changed, err = item.RefreshProgress(6, 8)
	require.NoError(t, err)
	assert.False(t, changed, "same percentage is not a change")

	changed, err = item.RefreshProgress(0, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0.0, item.Progress.Value())

	_, err = item.RefreshProgress(2, 1)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, 0.0, item.Progress.Value())
}

func TestCompletedItemKeepsFullProgress(t *testing.T) {
	t.Parallel()
	item := newTestItem(t)
	require.NoError(t, item.UpdateStatus(ItemStatusDone))

	changed, err := item.RefreshProgress(1, 4)

	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, item.Progress.IsComplete())
}

func TestLearningItemOwnership(t *testing.T) {
	t.Parallel()
	item := newTestItem(t)
	assert.True(t, item.IsOwnedBy(item.UserID))
	assert.False(t, item.IsOwnedBy(uuid.New()))
}
