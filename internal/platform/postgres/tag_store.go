package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

var _ store.TagStore = (*PostgresTagStore)(nil)

const tagColumns = `id, user_id, name, created_at`

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

// Create implements store.TagStore.Create
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.WarnContext(ctx, "tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, tag.ID, tag.UserID, tag.Name, tag.CreatedAt)
	if err != nil {
		log.ErrorContext(ctx, "failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapConstraintError(err)
	}

	log.InfoContext(ctx, "tag created successfully",
		slog.String("tag_id", tag.ID.String()),
		slog.String("name", tag.Name))
	return nil
}

// GetByID implements store.TagStore.GetByID
func (s *PostgresTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.getOne(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
}

// GetByName implements store.TagStore.GetByName
func (s *PostgresTagStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	return s.getOne(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND name = $2`,
		userID, domain.NormalizeTagName(name))
}

func (s *PostgresTagStore) getOne(ctx context.Context, query string, args ...any) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var t domain.Tag
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "tag not found")
			return nil, store.ErrTagNotFound
		}
		log.ErrorContext(ctx, "failed to get tag", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &t, nil
}

// ListByUser implements store.TagStore.ListByUser
func (s *PostgresTagStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	return s.list(ctx, `
		SELECT `+tagColumns+`
		FROM tags
		WHERE user_id = $1
		ORDER BY name
	`, userID)
}

// ListByItem implements store.TagStore.ListByItem
func (s *PostgresTagStore) ListByItem(ctx context.Context, learningItemID uuid.UUID) ([]*domain.Tag, error) {
	return s.list(ctx, `
		SELECT t.id, t.user_id, t.name, t.created_at
		FROM tags t
		JOIN learning_item_tags lit ON lit.tag_id = t.id
		WHERE lit.learning_item_id = $1
		ORDER BY t.name
	`, learningItemID)
}

func (s *PostgresTagStore) list(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.ErrorContext(ctx, "failed to list tags", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}

// AttachToItem implements store.TagStore.AttachToItem
func (s *PostgresTagStore) AttachToItem(ctx context.Context, tagID, learningItemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_item_tags (learning_item_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, learningItemID, tagID)
	if err != nil {
		log.ErrorContext(ctx, "failed to attach tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tagID.String()),
			slog.String("learning_item_id", learningItemID.String()))
		return MapError(err)
	}

	log.DebugContext(ctx, "tag attached",
		slog.String("tag_id", tagID.String()),
		slog.String("learning_item_id", learningItemID.String()))
	return nil
}

// DetachFromItem implements store.TagStore.DetachFromItem
func (s *PostgresTagStore) DetachFromItem(ctx context.Context, tagID, learningItemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM learning_item_tags
		WHERE learning_item_id = $1 AND tag_id = $2
	`, learningItemID, tagID)
	if err != nil {
		log.ErrorContext(ctx, "failed to detach tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tagID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, fmt.Errorf("%w: tag is not attached to item", store.ErrNotFound))
}

// Delete implements store.TagStore.Delete
func (s *PostgresTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTagNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "tag deleted successfully", slog.String("tag_id", id.String()))
	return nil
}
