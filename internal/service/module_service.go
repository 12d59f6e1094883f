package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// ModuleService manages the modules of learning items and keeps each item's
// cached progress in step with its modules.
type ModuleService interface {
	// AddModule appends a module at the end of the item.
	AddModule(ctx context.Context, userID, itemID uuid.UUID, title string) (*domain.Module, error)

	// AddModules appends several modules atomically, in the given order.
	AddModules(ctx context.Context, userID, itemID uuid.UUID, titles []string) ([]*domain.Module, error)

	// RenameModule changes a module title.
	RenameModule(ctx context.Context, userID, moduleID uuid.UUID, title string) (*domain.Module, error)

	// UpdateModuleStatus moves a module through its state machine and
	// refreshes the owning item's progress in the same transaction.
	UpdateModuleStatus(
		ctx context.Context,
		userID, moduleID uuid.UUID,
		status domain.ModuleStatus,
	) (*domain.Module, error)

	// RemoveModule deletes a module and refreshes the owning item's progress.
	RemoveModule(ctx context.Context, userID, moduleID uuid.UUID) error

	// ReorderModules assigns new positions to modules of one item atomically.
	ReorderModules(ctx context.Context, userID, itemID uuid.UUID, orders []domain.ModuleOrder) error

	// ListModules returns the item's modules in the requested order.
	ListModules(
		ctx context.Context,
		userID, itemID uuid.UUID,
		opts store.ModuleListOptions,
	) ([]*domain.Module, error)
}

type moduleServiceImpl struct {
	tx      store.Transactor
	items   store.LearningItemStore
	modules store.ModuleStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewModuleService creates a new ModuleService.
// It returns an error if any of the required dependencies are nil.
func NewModuleService(
	tx store.Transactor,
	items store.LearningItemStore,
	modules store.ModuleStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ModuleService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if modules == nil {
		return nil, domain.NewValidationError("modules", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &moduleServiceImpl{
		tx:      tx,
		items:   items,
		modules: modules,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "module_service")),
	}, nil
}

// AddModule implements ModuleService.AddModule
func (s *moduleServiceImpl) AddModule(
	ctx context.Context,
	userID, itemID uuid.UUID,
	title string,
) (*domain.Module, error) {
	created, err := s.AddModules(ctx, userID, itemID, []string{title})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// AddModules implements ModuleService.AddModules
func (s *moduleServiceImpl) AddModules(
	ctx context.Context,
	userID, itemID uuid.UUID,
	titles []string,
) ([]*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learning_item_id", itemID.String()))

	if len(titles) == 0 {
		return nil, domain.NewValidationError("titles", "must contain at least one module", nil)
	}

	var (
		created []*domain.Module
		change  *progressChange
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		txModules := s.modules.WithTx(tx)

		item, err := ownedItem(ctx, txItems, userID, itemID, true)
		if err != nil {
			return err
		}
		counts, err := txModules.CountByLearningItemID(ctx, itemID)
		if err != nil {
			return err
		}

		batch, err := buildModules(itemID, titles, counts.NextOrder)
		if err != nil {
			return err
		}
		if err := txModules.CreateMany(ctx, batch); err != nil {
			return err
		}

		change, err = refreshItemProgress(ctx, txItems, txModules, item)
		if err != nil {
			return err
		}
		created = batch
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "modules not added", slog.String("error", err.Error()))
		return nil, wrapUnexpected("module", "add", err)
	}

	log.InfoContext(ctx, "modules added", slog.Int("count", len(created)))
	emitProgress(ctx, s.emitter, log, change)
	return created, nil
}

// buildModules creates pending modules positioned after the existing ones.
func buildModules(itemID uuid.UUID, titles []string, firstOrder int) ([]*domain.Module, error) {
	batch := make([]*domain.Module, 0, len(titles))
	for i, title := range titles {
		m, err := domain.NewModule(itemID, title, firstOrder+i)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		batch = append(batch, m)
	}
	return batch, nil
}

// RenameModule implements ModuleService.RenameModule
func (s *moduleServiceImpl) RenameModule(
	ctx context.Context,
	userID, moduleID uuid.UUID,
	title string,
) (*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("module_id", moduleID.String()))

	module, _, err := ownedModule(ctx, s.items, s.modules, userID, moduleID, false)
	if err != nil {
		return nil, wrapUnexpected("module", "rename", err)
	}
	if err := module.Rename(title); err != nil {
		log.WarnContext(ctx, "invalid module title", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.modules.Update(ctx, module); err != nil {
		return nil, wrapUnexpected("module", "rename", err)
	}

	log.InfoContext(ctx, "module renamed")
	return module, nil
}

// UpdateModuleStatus implements ModuleService.UpdateModuleStatus
func (s *moduleServiceImpl) UpdateModuleStatus(
	ctx context.Context,
	userID, moduleID uuid.UUID,
	status domain.ModuleStatus,
) (*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("module_id", moduleID.String()),
		slog.String("requested_status", status.String()))

	var (
		module *domain.Module
		from   domain.ModuleStatus
		change *progressChange
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		txModules := s.modules.WithTx(tx)

		m, item, err := ownedModule(ctx, txItems, txModules, userID, moduleID, true)
		if err != nil {
			return err
		}
		from = m.Status
		if err := m.UpdateStatus(status); err != nil {
			return err
		}
		if err := txModules.Update(ctx, m); err != nil {
			return err
		}

		change, err = refreshItemProgress(ctx, txItems, txModules, item)
		if err != nil {
			return err
		}
		module = m
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "module status not updated", slog.String("error", err.Error()))
		return nil, wrapUnexpected("module", "update status", err)
	}

	log.InfoContext(ctx, "module status updated", slog.String("from", from.String()))
	emit(ctx, s.emitter, log, func() (*events.DomainEvent, error) {
		return events.NewDomainEvent(events.TypeModuleStatusChanged, userID, module.ID,
			events.StatusChangedPayload{
				From:           from.String(),
				To:             module.Status.String(),
				LearningItemID: module.LearningItemID,
			})
	})
	emitProgress(ctx, s.emitter, log, change)
	return module, nil
}

// RemoveModule implements ModuleService.RemoveModule
func (s *moduleServiceImpl) RemoveModule(ctx context.Context, userID, moduleID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("module_id", moduleID.String()))

	var change *progressChange
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		txModules := s.modules.WithTx(tx)

		_, item, err := ownedModule(ctx, txItems, txModules, userID, moduleID, true)
		if err != nil {
			return err
		}
		if err := txModules.Delete(ctx, moduleID); err != nil {
			return err
		}
		change, err = refreshItemProgress(ctx, txItems, txModules, item)
		return err
	})
	if err != nil {
		log.WarnContext(ctx, "module not removed", slog.String("error", err.Error()))
		return wrapUnexpected("module", "remove", err)
	}

	log.InfoContext(ctx, "module removed")
	emitProgress(ctx, s.emitter, log, change)
	return nil
}

// ReorderModules implements ModuleService.ReorderModules
func (s *moduleServiceImpl) ReorderModules(
	ctx context.Context,
	userID, itemID uuid.UUID,
	orders []domain.ModuleOrder,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learning_item_id", itemID.String()))

	if err := validateReorder(orders); err != nil {
		log.WarnContext(ctx, "invalid reorder request", slog.String("error", err.Error()))
		return err
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := ownedItem(ctx, s.items.WithTx(tx), userID, itemID, true); err != nil {
			return err
		}
		err := s.modules.WithTx(tx).Reorder(ctx, itemID, orders)
		if errors.Is(err, store.ErrModuleNotFound) {
			return NewServiceError("module", "reorder", fmt.Sprintf("item %s", itemID), ErrCrossItemModule)
		}
		return err
	})
	if err != nil {
		log.WarnContext(ctx, "modules not reordered", slog.String("error", err.Error()))
		return wrapUnexpected("module", "reorder", err)
	}

	log.InfoContext(ctx, "modules reordered", slog.Int("count", len(orders)))
	return nil
}

// validateReorder rejects empty requests, repeated ids and negative positions.
func validateReorder(orders []domain.ModuleOrder) error {
	if len(orders) == 0 {
		return domain.NewValidationError("orders", "must contain at least one module", nil)
	}
	seen := make(map[uuid.UUID]struct{}, len(orders))
	for _, o := range orders {
		if o.ID == uuid.Nil {
			return domain.NewValidationError("orders", "module id cannot be empty", nil)
		}
		if _, dup := seen[o.ID]; dup {
			return domain.NewValidationError("orders", fmt.Sprintf("module %s listed more than once", o.ID), nil)
		}
		seen[o.ID] = struct{}{}
		if o.Order < 0 {
			return domain.NewValidationError("order",
				fmt.Sprintf("must be >= 0, got %d for module %s", o.Order, o.ID), nil)
		}
	}
	return nil
}

// ListModules implements ModuleService.ListModules
func (s *moduleServiceImpl) ListModules(
	ctx context.Context,
	userID, itemID uuid.UUID,
	opts store.ModuleListOptions,
) ([]*domain.Module, error) {
	if _, err := ownedItem(ctx, s.items, userID, itemID, false); err != nil {
		return nil, wrapUnexpected("module", "list", err)
	}
	modules, err := s.modules.FindByLearningItemID(ctx, itemID, opts)
	if err != nil {
		return nil, wrapUnexpected("module", "list", err)
	}
	return modules, nil
}
