package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// PostgresModuleStore implements the store.ModuleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresModuleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresModuleStore creates a new PostgreSQL implementation of the ModuleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresModuleStore(db store.DBTX, logger *slog.Logger) *PostgresModuleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresModuleStore{
		db:     db,
		logger: logger.With(slog.String("component", "module_store")),
	}
}

var _ store.ModuleStore = (*PostgresModuleStore)(nil)

const moduleColumns = `id, learning_item_id, title, status, sort_order, created_at, updated_at`

// moduleSortColumns whitelists the columns a caller may sort by.
// User input never reaches the ORDER BY clause directly.
var moduleSortColumns = map[store.ModuleOrderBy]string{
	store.ModuleOrderByPosition:  "sort_order",
	store.ModuleOrderByTitle:     "title",
	store.ModuleOrderByCreatedAt: "created_at",
	store.ModuleOrderByStatus:    "status",
}

// moduleOrderClause builds the ORDER BY clause for opts.
func moduleOrderClause(opts store.ModuleListOptions) (string, error) {
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = store.ModuleOrderByPosition
	}
	column, ok := moduleSortColumns[orderBy]
	if !ok {
		return "", fmt.Errorf("%w: unknown module sort column %q", store.ErrInvalidEntity, opts.OrderBy)
	}

	direction := "ASC"
	switch opts.Order {
	case "", store.SortAsc:
	case store.SortDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("%w: unknown sort direction %q", store.ErrInvalidEntity, opts.Order)
	}

	// Ties fall back to position then id so listings are stable.
	return fmt.Sprintf("ORDER BY %s %s, sort_order ASC, id ASC", column, direction), nil
}

// WithTx implements store.ModuleStore.WithTx
func (s *PostgresModuleStore) WithTx(tx *sql.Tx) store.ModuleStore {
	return &PostgresModuleStore{db: tx, logger: s.logger}
}

// GetByID implements store.ModuleStore.GetByID
func (s *PostgresModuleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	module, err := scanModule(s.db.QueryRowContext(ctx,
		`SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "module not found", slog.String("module_id", id.String()))
			return nil, store.ErrModuleNotFound
		}
		log.ErrorContext(ctx, "failed to get module",
			slog.String("error", err.Error()),
			slog.String("module_id", id.String()))
		return nil, MapError(err)
	}
	return module, nil
}

// FindByLearningItemID implements store.ModuleStore.FindByLearningItemID
func (s *PostgresModuleStore) FindByLearningItemID(
	ctx context.Context,
	learningItemID uuid.UUID,
	opts store.ModuleListOptions,
) ([]*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	orderClause, err := moduleOrderClause(opts)
	if err != nil {
		log.WarnContext(ctx, "invalid module list options",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", learningItemID.String()))
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+moduleColumns+`
		FROM modules
		WHERE learning_item_id = $1
		`+orderClause, learningItemID)
	if err != nil {
		log.ErrorContext(ctx, "failed to list modules",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", learningItemID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	modules := make([]*domain.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, MapError(err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.DebugContext(ctx, "modules listed",
		slog.String("learning_item_id", learningItemID.String()),
		slog.Int("count", len(modules)))
	return modules, nil
}

// Create implements store.ModuleStore.Create
func (s *PostgresModuleStore) Create(ctx context.Context, module *domain.Module) error {
	return s.CreateMany(ctx, []*domain.Module{module})
}

// CreateMany implements store.ModuleStore.CreateMany
// All modules are written with a single multi-row INSERT.
func (s *PostgresModuleStore) CreateMany(ctx context.Context, modules []*domain.Module) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(modules) == 0 {
		return nil
	}

	const columnsPerRow = 7
	var sb strings.Builder
	sb.WriteString(`INSERT INTO modules (` + moduleColumns + `) VALUES `)
	args := make([]any, 0, len(modules)*columnsPerRow)
	for i, m := range modules {
		if err := m.Validate(); err != nil {
			log.WarnContext(ctx, "module validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * columnsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args,
			m.ID, m.LearningItemID, m.Title, m.Status.String(), m.Order, m.CreatedAt, m.UpdatedAt)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		log.ErrorContext(ctx, "failed to create modules",
			slog.String("error", err.Error()),
			slog.Int("count", len(modules)))
		return MapConstraintError(err)
	}

	log.InfoContext(ctx, "modules created successfully",
		slog.String("learning_item_id", modules[0].LearningItemID.String()),
		slog.Int("count", len(modules)))
	return nil
}

// Update implements store.ModuleStore.Update
func (s *PostgresModuleStore) Update(ctx context.Context, module *domain.Module) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := module.Validate(); err != nil {
		log.WarnContext(ctx, "module validation failed during update",
			slog.String("error", err.Error()),
			slog.String("module_id", module.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE modules
		SET title = $1, status = $2, sort_order = $3, updated_at = $4
		WHERE id = $5
	`, module.Title, module.Status.String(), module.Order, module.UpdatedAt, module.ID)
	if err != nil {
		log.ErrorContext(ctx, "failed to update module",
			slog.String("error", err.Error()),
			slog.String("module_id", module.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrModuleNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "module updated successfully",
		slog.String("module_id", module.ID.String()),
		slog.String("status", module.Status.String()))
	return nil
}

// Delete implements store.ModuleStore.Delete
func (s *PostgresModuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete module",
			slog.String("error", err.Error()),
			slog.String("module_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrModuleNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "module deleted successfully", slog.String("module_id", id.String()))
	return nil
}

// Reorder implements store.ModuleStore.Reorder
// Every position is written by one UPDATE joined against a VALUES list. The
// statement must touch exactly len(orders) rows of the item; anything less
// means an id is unknown or belongs to another item, and nothing is applied.
func (s *PostgresModuleStore) Reorder(
	ctx context.Context,
	learningItemID uuid.UUID,
	orders []domain.ModuleOrder,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(orders) == 0 {
		return nil
	}

	query, args := reorderQuery(learningItemID, orders, time.Now().UTC())
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.ErrorContext(ctx, "failed to reorder modules",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", learningItemID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected != int64(len(orders)) {
		log.WarnContext(ctx, "reorder names modules outside the learning item",
			slog.String("learning_item_id", learningItemID.String()),
			slog.Int64("matched", affected),
			slog.Int("requested", len(orders)))
		return store.NewStoreError("module", "reorder",
			fmt.Sprintf("only %d of %d modules are part of item %s", affected, len(orders), learningItemID),
			store.ErrModuleNotFound)
	}

	log.InfoContext(ctx, "modules reordered",
		slog.String("learning_item_id", learningItemID.String()),
		slog.Int("count", len(orders)))
	return nil
}

// reorderQuery builds the single-statement reorder. $1 is the item, $2 the
// timestamp, and each order adds an (id, sort_order) pair.
func reorderQuery(learningItemID uuid.UUID, orders []domain.ModuleOrder, now time.Time) (string, []any) {
	args := make([]any, 0, 2+2*len(orders))
	args = append(args, learningItemID, now)

	values := make([]string, 0, len(orders))
	for _, o := range orders {
		n := len(args)
		values = append(values, fmt.Sprintf("($%d::uuid, $%d::int)", n+1, n+2))
		args = append(args, o.ID, o.Order)
	}

	query := `
		UPDATE modules AS m
		SET sort_order = v.sort_order, updated_at = $2
		FROM (VALUES ` + strings.Join(values, ", ") + `) AS v(id, sort_order)
		WHERE m.id = v.id AND m.learning_item_id = $1
	`
	return query, args
}

// CountByLearningItemID implements store.ModuleStore.CountByLearningItemID
func (s *PostgresModuleStore) CountByLearningItemID(
	ctx context.Context,
	learningItemID uuid.UUID,
) (store.ModuleCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var counts store.ModuleCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = $2), COUNT(*), COALESCE(MAX(sort_order) + 1, 0)
		FROM modules
		WHERE learning_item_id = $1
	`, learningItemID, domain.ModuleStatusDone.String()).Scan(&counts.Completed, &counts.Total, &counts.NextOrder)
	if err != nil {
		log.ErrorContext(ctx, "failed to count modules",
			slog.String("error", err.Error()),
			slog.String("learning_item_id", learningItemID.String()))
		return store.ModuleCounts{}, MapError(err)
	}
	return counts, nil
}

func scanModule(row rowScanner) (*domain.Module, error) {
	var m domain.Module
	var status string
	if err := row.Scan(
		&m.ID,
		&m.LearningItemID,
		&m.Title,
		&status,
		&m.Order,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Status = domain.ModuleStatus(status)
	return &m, nil
}
