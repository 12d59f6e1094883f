package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	user, err := domain.NewUser("Ada", " Ada@Example.COM ")
	require.NoError(t, err)
	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, "Ada", "ada@example.com", user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), user))
}

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	user, err := domain.NewUser("Ada", "ada@example.com")
	require.NoError(t, err)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: constraintUsersEmail})

	assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrEmailExists)
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	email, err := domain.NewEmail("grace@example.com")
	require.NoError(t, err)
	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("FROM users\\s+WHERE email = \\$1").
		WithArgs("grace@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
			AddRow(id, "Grace", "grace@example.com", now, now))

	user, err := s.GetByEmail(context.Background(), email)

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.Email.Equal(email))
}

func TestUserStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)
	id := uuid.New()

	mock.ExpectQuery("FROM users\\s+WHERE id = \\$1").WithArgs(id).WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
