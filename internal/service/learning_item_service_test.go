package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with initial modules", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		details, err := f.itemSvc.CreateItem(ctx, f.userID, CreateItemParams{
			CategoryID: f.category.ID,
			Title:      " The Go Programming Language ",
			Kind:       domain.ItemKindBook,
			Modules:    []string{"Tutorial", "Program Structure"},
		})

		require.NoError(t, err)
		assert.Equal(t, "The Go Programming Language", details.Item.Title)
		assert.Equal(t, domain.ItemStatusBacklog, details.Item.Status)
		assert.Equal(t, 0.0, details.Item.Progress.Value())
		require.Len(t, details.Modules, 2)
		assert.Equal(t, 0, details.Modules[0].Order)
		assert.Equal(t, 1, details.Modules[1].Order)
		assert.NotNil(t, f.items.Get(details.Item.ID))
		assert.Equal(t, 1, f.tx.Calls())
	})

	t.Run("category of another user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.itemSvc.CreateItem(ctx, uuid.New(), CreateItemParams{
			CategoryID: f.category.ID,
			Title:      "Stolen",
			Kind:       domain.ItemKindCourse,
		})

		assert.ErrorIs(t, err, ErrNotOwned)
		assert.Empty(t, f.items.Items)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.itemSvc.CreateItem(ctx, f.userID, CreateItemParams{
			CategoryID: uuid.New(),
			Title:      "Orphan",
			Kind:       domain.ItemKindCourse,
		})

		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})

	t.Run("invalid kind", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.itemSvc.CreateItem(ctx, f.userID, CreateItemParams{
			CategoryID: f.category.ID,
			Title:      "Podcast",
			Kind:       "podcast",
		})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestGetAndListItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	item := f.addItem(t, "Distributed Systems")
	f.addModule(t, item, "Consensus", domain.ModuleStatusPending)
	tag, err := f.tagSvc.CreateTag(ctx, f.userID, "Theory")
	require.NoError(t, err)
	require.NoError(t, f.tagSvc.AttachTag(ctx, f.userID, item.ID, tag.ID))
	f.addItemFor(t, uuid.New(), "Someone else's")

	details, err := f.itemSvc.GetItem(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, details.Item.ID)
	assert.Len(t, details.Modules, 1)
	require.Len(t, details.Tags, 1)
	assert.Equal(t, "theory", details.Tags[0].Name)

	_, err = f.itemSvc.GetItem(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	items, err := f.itemSvc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestUpdateItemStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("completing pins progress at 100", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		item := f.addItem(t, "Terraform")
		f.addModule(t, item, "State", domain.ModuleStatusPending)

		_, err := f.itemSvc.UpdateItemStatus(ctx, f.userID, item.ID, domain.ItemStatusInProgress)
		require.NoError(t, err)
		updated, err := f.itemSvc.UpdateItemStatus(ctx, f.userID, item.ID, domain.ItemStatusDone)
		require.NoError(t, err)

		assert.Equal(t, domain.ItemStatusDone, updated.Status)
		stored := f.items.Get(item.ID)
		assert.Equal(t, domain.ItemStatusDone, stored.Status)
		assert.True(t, stored.Progress.IsComplete())
		assert.Equal(t, []string{
			events.TypeItemStatusChanged,
			events.TypeItemStatusChanged,
			events.TypeItemProgressChanged,
		}, f.recorder.types())

		refreshed, err := f.itemSvc.RefreshProgress(ctx, f.userID, item.ID)
		require.NoError(t, err)
		assert.True(t, refreshed.Progress.IsComplete(), "a completed item ignores its modules")
	})

	t.Run("in progress cannot return to backlog", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		item := f.addItem(t, "Terraform")
		_, err := f.itemSvc.UpdateItemStatus(ctx, f.userID, item.ID, domain.ItemStatusInProgress)
		require.NoError(t, err)

		_, err = f.itemSvc.UpdateItemStatus(ctx, f.userID, item.ID, domain.ItemStatusBacklog)

		var tErr *domain.InvalidTransitionError
		require.True(t, errors.As(err, &tErr))
		assert.Equal(t, "Em_Andamento", tErr.From)
		assert.Equal(t, "Backlog", tErr.To)
		assert.Equal(t, domain.ItemStatusInProgress, f.items.Get(item.ID).Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		item := f.addItem(t, "Terraform")

		_, err := f.itemSvc.UpdateItemStatus(ctx, f.userID, item.ID, "Arquivado")

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRefreshProgressRepairsCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	item := f.addItem(t, "Linux")
	f.addModule(t, item, "Processes", domain.ModuleStatusDone)
	f.addModule(t, item, "Memory", domain.ModuleStatusDone)
	f.addModule(t, item, "Filesystems", domain.ModuleStatusPending)
	f.addModule(t, item, "Networking", domain.ModuleStatusPending)

	refreshed, err := f.itemSvc.RefreshProgress(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, refreshed.Progress.Value())
	assert.Equal(t, []string{events.TypeItemProgressChanged}, f.recorder.types())

	_, err = f.itemSvc.RefreshProgress(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Len(t, f.recorder.types(), 1, "unchanged progress is not announced")
}

func TestRefreshProgressInvariantViolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	item := f.addItem(t, "Linux")
	f.modules.CountByLearningItemIDFn = func(context.Context, uuid.UUID) (store.ModuleCounts, error) {
		return store.ModuleCounts{Completed: 3, Total: 2}, nil
	}

	_, err := f.itemSvc.RefreshProgress(ctx, f.userID, item.ID)

	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, 0.0, f.items.Get(item.ID).Progress.Value())
}

func TestDeleteItemCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	a := f.addItem(t, "A")
	b := f.addItem(t, "B")
	module := f.addModule(t, a, "Intro", domain.ModuleStatusPending)
	_, err := f.dependencies.AddDependency(ctx, f.userID, b.ID, a.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.itemSvc.DeleteItem(ctx, uuid.New(), a.ID), ErrNotOwned)

	require.NoError(t, f.itemSvc.DeleteItem(ctx, f.userID, a.ID))
	assert.Nil(t, f.items.Get(a.ID))
	assert.Nil(t, f.modules.Get(module.ID))
	assert.Zero(t, f.deps.Count())

	assert.ErrorIs(t, f.itemSvc.DeleteItem(ctx, f.userID, a.ID), store.ErrNotFound)
}
