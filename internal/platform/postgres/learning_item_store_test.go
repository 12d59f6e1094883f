package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var learningItemRowColumns = []string{
	"id", "user_id", "category_id", "title", "kind", "status", "progress", "created_at", "updated_at",
}

func TestLearningItemStoreGetByID(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)

	id, userID, categoryID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("FROM learning_items WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(learningItemRowColumns).
			AddRow(id, userID, categoryID, "Go in Action", "book", "Em_Andamento", 66.67, now, now))

	item, err := s.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusInProgress, item.Status)
	assert.Equal(t, domain.ItemKindBook, item.Kind)
	assert.Equal(t, 66.67, item.Progress.Value())
	assert.True(t, item.IsOwnedBy(userID))
}

func TestLearningItemStoreGetForUpdateLocksRow(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)
	id := uuid.New()

	mock.ExpectQuery("FOR UPDATE").WithArgs(id).WillReturnError(sql.ErrNoRows)

	_, err := s.GetForUpdate(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrLearningItemNotFound)
}

func TestLearningItemStoreCreate(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)

	item, err := domain.NewLearningItem(uuid.New(), uuid.New(), "Kubernetes CKA", domain.ItemKindCertification)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO learning_items").
		WithArgs(item.ID, item.UserID, item.CategoryID, "Kubernetes CKA", "certification", "Backlog", 0.0,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), item))
}

func TestLearningItemStoreUpdateProgress(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)

	item, err := domain.NewLearningItem(uuid.New(), uuid.New(), "Course", domain.ItemKindCourse)
	require.NoError(t, err)
	_, err = item.RefreshProgress(1, 3)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE learning_items\\s+SET progress").
		WithArgs(33.33, sqlmock.AnyArg(), item.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateProgress(context.Background(), item))
}

func TestLearningItemStoreUpdateStatusWritesProgress(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)

	item, err := domain.NewLearningItem(uuid.New(), uuid.New(), "Course", domain.ItemKindCourse)
	require.NoError(t, err)
	require.NoError(t, item.UpdateStatus(domain.ItemStatusDone))

	mock.ExpectExec("UPDATE learning_items\\s+SET status").
		WithArgs("Concluido", 100.0, sqlmock.AnyArg(), item.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateStatus(context.Background(), item))
}

func TestLearningItemStoreDeleteNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM learning_items").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrLearningItemNotFound)
}

func TestLearningItemStoreListByUser(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresLearningItemStore(db, nil)

	userID := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(learningItemRowColumns).
			AddRow(uuid.New(), userID, uuid.New(), "A", "other", "Backlog", 0.0, now, now).
			AddRow(uuid.New(), userID, uuid.New(), "B", "course", "Concluido", 100.0, now, now))

	items, err := s.ListByUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[1].Progress.IsComplete())
}
