package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// PostgresLearningItemStore implements the store.LearningItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearningItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningItemStore creates a new PostgreSQL implementation of the LearningItemStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLearningItemStore(db store.DBTX, logger *slog.Logger) *PostgresLearningItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLearningItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_item_store")),
	}
}

var _ store.LearningItemStore = (*PostgresLearningItemStore)(nil)

const learningItemColumns = `id, user_id, category_id, title, kind, status, progress, created_at, updated_at`

// WithTx implements store.LearningItemStore.WithTx
func (s *PostgresLearningItemStore) WithTx(tx *sql.Tx) store.LearningItemStore {
	return &PostgresLearningItemStore{db: tx, logger: s.logger}
}

// Create implements store.LearningItemStore.Create
func (s *PostgresLearningItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.WarnContext(ctx, "learning item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", item.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_items (`+learningItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		item.ID,
		item.UserID,
		item.CategoryID,
		item.Title,
		string(item.Kind),
		item.Status.String(),
		item.Progress.Value(),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to create learning item",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", item.ID.String()))
		return MapConstraintError(err)
	}

	log.InfoContext(ctx, "learning item created successfully",
		slog.String("learning_item_id", item.ID.String()),
		slog.String("user_id", item.UserID.String()))
	return nil
}

// GetByID implements store.LearningItemStore.GetByID
func (s *PostgresLearningItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return s.getOne(ctx, `SELECT `+learningItemColumns+` FROM learning_items WHERE id = $1`, id)
}

// GetForUpdate implements store.LearningItemStore.GetForUpdate
func (s *PostgresLearningItemStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return s.getOne(ctx, `SELECT `+learningItemColumns+` FROM learning_items WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresLearningItemStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanLearningItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "learning item not found", slog.String("learning_item_id", id.String()))
			return nil, store.ErrLearningItemNotFound
		}
		log.ErrorContext(ctx, "failed to get learning item",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", id.String()))
		return nil, MapError(err)
	}
	return item, nil
}

// ListByUser implements store.LearningItemStore.ListByUser
func (s *PostgresLearningItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+learningItemColumns+`
		FROM learning_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to list learning items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.LearningItem, 0)
	for rows.Next() {
		item, err := scanLearningItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// UpdateStatus implements store.LearningItemStore.UpdateStatus
// The cached progress is written too, since completing an item pins it to 100%.
func (s *PostgresLearningItemStore) UpdateStatus(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE learning_items
		SET status = $1, progress = $2, updated_at = $3
		WHERE id = $4
	`, item.Status.String(), item.Progress.Value(), item.UpdatedAt, item.ID)
	if err != nil {
		log.ErrorContext(ctx, "failed to update learning item status",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", item.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLearningItemNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "learning item status updated",
		slog.String("learning_item_id", item.ID.String()),
		slog.String("status", item.Status.String()))
	return nil
}

// UpdateProgress implements store.LearningItemStore.UpdateProgress
func (s *PostgresLearningItemStore) UpdateProgress(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE learning_items
		SET progress = $1, updated_at = $2
		WHERE id = $3
	`, item.Progress.Value(), item.UpdatedAt, item.ID)
	if err != nil {
		log.ErrorContext(ctx, "failed to update learning item progress",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", item.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLearningItemNotFound); err != nil {
		return err
	}

	log.DebugContext(ctx, "learning item progress updated",
		slog.String("learning_item_id", item.ID.String()),
		slog.Float64("progress", item.Progress.Value()))
	return nil
}

// Delete implements store.LearningItemStore.Delete
func (s *PostgresLearningItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM learning_items WHERE id = $1`, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete learning item",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLearningItemNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "learning item deleted successfully", slog.String("learning_item_id", id.String()))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLearningItem(row rowScanner) (*domain.LearningItem, error) {
	var item domain.LearningItem
	var kind, status string
	var progress float64
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.CategoryID,
		&item.Title,
		&kind,
		&status,
		&progress,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Kind = domain.ItemKind(kind)
	item.Status = domain.ItemStatus(status)
	p, err := domain.NewProgress(progress)
	if err != nil {
		return nil, err
	}
	item.Progress = p
	return &item, nil
}
