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

// PostgresDependencyStore implements the store.DependencyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDependencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDependencyStore creates a new PostgreSQL implementation of the DependencyStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDependencyStore(db store.DBTX, logger *slog.Logger) *PostgresDependencyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDependencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "dependency_store")),
	}
}

var _ store.DependencyStore = (*PostgresDependencyStore)(nil)

const dependencyColumns = `id, source_item_id, target_item_id, created_at`

// graphLockNamespace keeps dependency-graph advisory locks apart from any
// other advisory locks taken on the same database.
const graphLockNamespace = "learning-tracker:dependency-graph:"

// WithTx implements store.DependencyStore.WithTx
func (s *PostgresDependencyStore) WithTx(tx *sql.Tx) store.DependencyStore {
	return &PostgresDependencyStore{db: tx, logger: s.logger}
}

// GetByID implements store.DependencyStore.GetByID
func (s *PostgresDependencyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dependency, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var d domain.Dependency
	err := s.db.QueryRowContext(ctx,
		`SELECT `+dependencyColumns+` FROM dependencies WHERE id = $1`, id,
	).Scan(&d.ID, &d.SourceItemID, &d.TargetItemID, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "dependency not found", slog.String("dependency_id", id.String()))
			return nil, store.ErrDependencyNotFound
		}
		log.ErrorContext(ctx, "failed to get dependency",
			slog.String("error", err.Error()),
			slog.String("dependency_id", id.String()))
		return nil, MapError(err)
	}
	return &d, nil
}

// FindBySourceItemID implements store.DependencyStore.FindBySourceItemID
func (s *PostgresDependencyStore) FindBySourceItemID(
	ctx context.Context,
	sourceItemID uuid.UUID,
) ([]*domain.Dependency, error) {
	return s.list(ctx, `
		SELECT `+dependencyColumns+`
		FROM dependencies
		WHERE source_item_id = $1
		ORDER BY created_at, id
	`, sourceItemID)
}

// FindByTargetItemID implements store.DependencyStore.FindByTargetItemID
func (s *PostgresDependencyStore) FindByTargetItemID(
	ctx context.Context,
	targetItemID uuid.UUID,
) ([]*domain.Dependency, error) {
	return s.list(ctx, `
		SELECT `+dependencyColumns+`
		FROM dependencies
		WHERE target_item_id = $1
		ORDER BY created_at, id
	`, targetItemID)
}

func (s *PostgresDependencyStore) list(ctx context.Context, query string, id uuid.UUID) ([]*domain.Dependency, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to list dependencies",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", id.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	deps := make([]*domain.Dependency, 0)
	for rows.Next() {
		var d domain.Dependency
		if err := rows.Scan(&d.ID, &d.SourceItemID, &d.TargetItemID, &d.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		deps = append(deps, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return deps, nil
}

// Create implements store.DependencyStore.Create
func (s *PostgresDependencyStore) Create(ctx context.Context, dep *domain.Dependency) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dep.Validate(); err != nil {
		log.WarnContext(ctx, "dependency validation failed during create",
			slog.String("error", err.Error()),
			slog.String("source_item_id", dep.SourceItemID.String()),
			slog.String("target_item_id", dep.TargetItemID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dependencies (`+dependencyColumns+`)
		VALUES ($1, $2, $3, $4)
	`, dep.ID, dep.SourceItemID, dep.TargetItemID, dep.CreatedAt)
	if err != nil {
		log.ErrorContext(ctx, "failed to create dependency",
			slog.String("error", err.Error()),
			slog.String("source_item_id", dep.SourceItemID.String()),
			slog.String("target_item_id", dep.TargetItemID.String()))
		return MapConstraintError(err)
	}

	log.InfoContext(ctx, "dependency created successfully",
		slog.String("dependency_id", dep.ID.String()),
		slog.String("source_item_id", dep.SourceItemID.String()),
		slog.String("target_item_id", dep.TargetItemID.String()))
	return nil
}

// Delete implements store.DependencyStore.Delete
func (s *PostgresDependencyStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = $1`, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete dependency",
			slog.String("error", err.Error()),
			slog.String("dependency_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrDependencyNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "dependency deleted successfully", slog.String("dependency_id", id.String()))
	return nil
}

// Exists implements store.DependencyStore.Exists
func (s *PostgresDependencyStore) Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM dependencies
			WHERE source_item_id = $1 AND target_item_id = $2
		)
	`, sourceItemID, targetItemID).Scan(&exists)
	if err != nil {
		log.ErrorContext(ctx, "failed to check dependency existence",
			slog.String("error", err.Error()),
			slog.String("source_item_id", sourceItemID.String()),
			slog.String("target_item_id", targetItemID.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// LockUserGraph implements store.DependencyStore.LockUserGraph
// The advisory lock is transaction-scoped and released on commit or rollback.
func (s *PostgresDependencyStore) LockUserGraph(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		graphLockNamespace+userID.String(),
	); err != nil {
		log.ErrorContext(ctx, "failed to lock dependency graph",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.DebugContext(ctx, "dependency graph locked", slog.String("user_id", userID.String()))
	return nil
}
