package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// CreateItemParams holds the data needed to create a learning item.
type CreateItemParams struct {
	CategoryID uuid.UUID
	Title      string
	Kind       domain.ItemKind
	// Modules are optional initial module titles, created in order.
	Modules []string
}

// ItemDetails is a learning item together with its modules and tags.
type ItemDetails struct {
	Item    *domain.LearningItem
	Modules []*domain.Module
	Tags    []*domain.Tag
}

// LearningItemService manages the lifecycle of learning items.
type LearningItemService interface {
	// CreateItem creates a backlog item in one of the user's categories,
	// optionally with its first modules, in a single transaction.
	CreateItem(ctx context.Context, userID uuid.UUID, params CreateItemParams) (*ItemDetails, error)

	// GetItem returns an item with its modules and tags.
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetails, error)

	// ListItems returns the user's items, newest first.
	ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error)

	// UpdateItemStatus moves an item through its state machine.
	UpdateItemStatus(
		ctx context.Context,
		userID, itemID uuid.UUID,
		status domain.ItemStatus,
	) (*domain.LearningItem, error)

	// RefreshProgress recomputes the cached progress from the item's modules.
	RefreshProgress(ctx context.Context, userID, itemID uuid.UUID) (*domain.LearningItem, error)

	// DeleteItem removes an item with its modules, tag links and dependencies.
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type learningItemServiceImpl struct {
	tx         store.Transactor
	items      store.LearningItemStore
	modules    store.ModuleStore
	categories store.CategoryStore
	tags       store.TagStore
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewLearningItemService creates a new LearningItemService.
// It returns an error if any of the required dependencies are nil.
func NewLearningItemService(
	tx store.Transactor,
	items store.LearningItemStore,
	modules store.ModuleStore,
	categories store.CategoryStore,
	tags store.TagStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (LearningItemService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if modules == nil {
		return nil, domain.NewValidationError("modules", "cannot be nil", domain.ErrValidation)
	}
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if tags == nil {
		return nil, domain.NewValidationError("tags", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &learningItemServiceImpl{
		tx:         tx,
		items:      items,
		modules:    modules,
		categories: categories,
		tags:       tags,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "learning_item_service")),
	}, nil
}

// CreateItem implements LearningItemService.CreateItem
func (s *learningItemServiceImpl) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	params CreateItemParams,
) (*ItemDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("category_id", params.CategoryID.String()))

	var details *ItemDetails
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		txModules := s.modules.WithTx(tx)

		category, err := s.categories.WithTx(tx).GetByID(ctx, params.CategoryID)
		if err != nil {
			return err
		}
		if category.UserID != userID {
			return ErrNotOwned
		}

		item, err := domain.NewLearningItem(userID, params.CategoryID, params.Title, params.Kind)
		if err != nil {
			return err
		}
		if err := txItems.Create(ctx, item); err != nil {
			return err
		}

		modules := []*domain.Module{}
		if len(params.Modules) > 0 {
			modules, err = buildModules(item.ID, params.Modules, 0)
			if err != nil {
				return err
			}
			if err := txModules.CreateMany(ctx, modules); err != nil {
				return err
			}
		}

		details = &ItemDetails{Item: item, Modules: modules, Tags: []*domain.Tag{}}
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "learning item not created", slog.String("error", err.Error()))
		return nil, wrapUnexpected("learning item", "create", err)
	}

	log.InfoContext(ctx, "learning item created",
		slog.String("learning_item_id", details.Item.ID.String()),
		slog.Int("module_count", len(details.Modules)))
	return details, nil
}

// GetItem implements LearningItemService.GetItem
func (s *learningItemServiceImpl) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetails, error) {
	item, err := ownedItem(ctx, s.items, userID, itemID, false)
	if err != nil {
		return nil, wrapUnexpected("learning item", "get", err)
	}
	modules, err := s.modules.FindByLearningItemID(ctx, itemID, store.ModuleListOptions{})
	if err != nil {
		return nil, wrapUnexpected("learning item", "get", err)
	}
	tags, err := s.tags.ListByItem(ctx, itemID)
	if err != nil {
		return nil, wrapUnexpected("learning item", "get", err)
	}
	return &ItemDetails{Item: item, Modules: modules, Tags: tags}, nil
}

// ListItems implements LearningItemService.ListItems
func (s *learningItemServiceImpl) ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapUnexpected("learning item", "list", err)
	}
	return items, nil
}

// UpdateItemStatus implements LearningItemService.UpdateItemStatus
func (s *learningItemServiceImpl) UpdateItemStatus(
	ctx context.Context,
	userID, itemID uuid.UUID,
	status domain.ItemStatus,
) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learning_item_id", itemID.String()),
		slog.String("requested_status", status.String()))

	var (
		item         *domain.LearningItem
		fromStatus   domain.ItemStatus
		fromProgress float64
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)

		current, err := ownedItem(ctx, txItems, userID, itemID, true)
		if err != nil {
			return err
		}
		fromStatus = current.Status
		fromProgress = current.Progress.Value()
		if err := current.UpdateStatus(status); err != nil {
			return err
		}
		if err := txItems.UpdateStatus(ctx, current); err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "learning item status not updated", slog.String("error", err.Error()))
		return nil, wrapUnexpected("learning item", "update status", err)
	}

	log.InfoContext(ctx, "learning item status updated", slog.String("from", fromStatus.String()))
	emit(ctx, s.emitter, log, func() (*events.DomainEvent, error) {
		return events.NewDomainEvent(events.TypeItemStatusChanged, userID, item.ID,
			events.StatusChangedPayload{
				From:           fromStatus.String(),
				To:             item.Status.String(),
				LearningItemID: item.ID,
			})
	})
	if item.Progress.Value() != fromProgress {
		emitProgress(ctx, s.emitter, log, &progressChange{item: item, from: fromProgress})
	}
	return item, nil
}

// RefreshProgress implements LearningItemService.RefreshProgress
func (s *learningItemServiceImpl) RefreshProgress(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learning_item_id", itemID.String()))

	var (
		item   *domain.LearningItem
		change *progressChange
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)

		current, err := ownedItem(ctx, txItems, userID, itemID, true)
		if err != nil {
			return err
		}
		change, err = refreshItemProgress(ctx, txItems, s.modules.WithTx(tx), current)
		if err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "progress not refreshed", slog.String("error", err.Error()))
		return nil, wrapUnexpected("learning item", "refresh progress", err)
	}

	log.DebugContext(ctx, "progress refreshed", slog.String("progress", item.Progress.String()))
	emitProgress(ctx, s.emitter, log, change)
	return item, nil
}

// DeleteItem implements LearningItemService.DeleteItem
func (s *learningItemServiceImpl) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learning_item_id", itemID.String()))

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		if _, err := ownedItem(ctx, txItems, userID, itemID, true); err != nil {
			return err
		}
		return txItems.Delete(ctx, itemID)
	})
	if err != nil {
		log.WarnContext(ctx, "learning item not deleted", slog.String("error", err.Error()))
		return wrapUnexpected("learning item", "delete", err)
	}

	log.InfoContext(ctx, "learning item deleted")
	return nil
}
