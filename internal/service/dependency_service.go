package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/domain/depgraph"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// DependencyService manages prerequisite edges between a user's learning items.
type DependencyService interface {
	// AddDependency records that source requires target. The self-loop,
	// duplicate and cycle checks run under a per-user graph lock in the same
	// transaction as the insert.
	AddDependency(ctx context.Context, userID, sourceItemID, targetItemID uuid.UUID) (*domain.Dependency, error)

	// RemoveDependency deletes an edge the user owns.
	RemoveDependency(ctx context.Context, userID, dependencyID uuid.UUID) error

	// ListPrerequisites returns the edges leaving an item.
	ListPrerequisites(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Dependency, error)

	// ListDependents returns the edges entering an item.
	ListDependents(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Dependency, error)

	// CheckDependency classifies a proposed edge without creating it.
	CheckDependency(ctx context.Context, userID, sourceItemID, targetItemID uuid.UUID) (depgraph.Verdict, error)
}

type dependencyServiceImpl struct {
	tx       store.Transactor
	items    store.LearningItemStore
	deps     store.DependencyStore
	emitter  events.EventEmitter
	logger   *slog.Logger
	engineOf func(store.DependencyStore) depgraph.Engine
}

// NewDependencyService creates a new DependencyService.
// It returns an error if any of the required dependencies are nil.
func NewDependencyService(
	tx store.Transactor,
	items store.LearningItemStore,
	deps store.DependencyStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DependencyService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if deps == nil {
		return nil, domain.NewValidationError("deps", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &dependencyServiceImpl{
		tx:      tx,
		items:   items,
		deps:    deps,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "dependency_service")),
		engineOf: func(s store.DependencyStore) depgraph.Engine {
			return depgraph.NewEngine(s)
		},
	}, nil
}

// AddDependency implements DependencyService.AddDependency
func (s *dependencyServiceImpl) AddDependency(
	ctx context.Context,
	userID, sourceItemID, targetItemID uuid.UUID,
) (*domain.Dependency, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("source_item_id", sourceItemID.String()),
		slog.String("target_item_id", targetItemID.String()))

	// The self-loop is rejected before any store access.
	if sourceItemID == targetItemID {
		log.WarnContext(ctx, "rejected self dependency")
		return nil, NewServiceError("dependency", "add", fmt.Sprintf("item %s", sourceItemID), ErrSelfDependency)
	}

	var created *domain.Dependency
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.items.WithTx(tx)
		txDeps := s.deps.WithTx(tx)

		if err := txDeps.LockUserGraph(ctx, userID); err != nil {
			return err
		}
		if _, err := ownedItem(ctx, txItems, userID, sourceItemID, false); err != nil {
			return err
		}
		if _, err := ownedItem(ctx, txItems, userID, targetItemID, false); err != nil {
			return err
		}

		verdict, err := s.engineOf(txDeps).Check(ctx, sourceItemID, targetItemID)
		if err != nil {
			return err
		}
		if err := verdictError(verdict, sourceItemID, targetItemID); err != nil {
			return err
		}

		dep, err := domain.NewDependency(sourceItemID, targetItemID)
		if err != nil {
			return err
		}
		if err := txDeps.Create(ctx, dep); err != nil {
			if errors.Is(err, store.ErrDependencyExists) {
				return NewServiceError("dependency", "add",
					fmt.Sprintf("%s -> %s", sourceItemID, targetItemID), ErrDuplicateDependency)
			}
			return err
		}
		created = dep
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "dependency not added", slog.String("error", err.Error()))
		return nil, wrapUnexpected("dependency", "add", err)
	}

	log.InfoContext(ctx, "dependency added", slog.String("dependency_id", created.ID.String()))
	emit(ctx, s.emitter, log, func() (*events.DomainEvent, error) {
		return events.NewDomainEvent(events.TypeDependencyCreated, userID, created.ID,
			events.DependencyPayload{SourceItemID: sourceItemID, TargetItemID: targetItemID})
	})
	return created, nil
}

// verdictError converts a rejecting verdict into the caller-facing error.
func verdictError(v depgraph.Verdict, sourceItemID, targetItemID uuid.UUID) error {
	edge := fmt.Sprintf("%s -> %s", sourceItemID, targetItemID)
	switch v {
	case depgraph.VerdictAllowed:
		return nil
	case depgraph.VerdictSelfLoop:
		return NewServiceError("dependency", "add", edge, ErrSelfDependency)
	case depgraph.VerdictDuplicate:
		return NewServiceError("dependency", "add", edge, ErrDuplicateDependency)
	case depgraph.VerdictCycle:
		return NewServiceError("dependency", "add", edge, ErrCircularDependency)
	default:
		return NewServiceError("dependency", "add", fmt.Sprintf("unknown verdict %s", v), nil)
	}
}

// RemoveDependency implements DependencyService.RemoveDependency
func (s *dependencyServiceImpl) RemoveDependency(ctx context.Context, userID, dependencyID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("dependency_id", dependencyID.String()))

	var removed *domain.Dependency
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txDeps := s.deps.WithTx(tx)

		if err := txDeps.LockUserGraph(ctx, userID); err != nil {
			return err
		}
		dep, err := txDeps.GetByID(ctx, dependencyID)
		if err != nil {
			return err
		}
		if _, err := ownedItem(ctx, s.items.WithTx(tx), userID, dep.SourceItemID, false); err != nil {
			return err
		}
		if err := txDeps.Delete(ctx, dependencyID); err != nil {
			return err
		}
		removed = dep
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "dependency not removed", slog.String("error", err.Error()))
		return wrapUnexpected("dependency", "remove", err)
	}

	log.InfoContext(ctx, "dependency removed")
	emit(ctx, s.emitter, log, func() (*events.DomainEvent, error) {
		return events.NewDomainEvent(events.TypeDependencyDeleted, userID, removed.ID,
			events.DependencyPayload{SourceItemID: removed.SourceItemID, TargetItemID: removed.TargetItemID})
	})
	return nil
}

// ListPrerequisites implements DependencyService.ListPrerequisites
func (s *dependencyServiceImpl) ListPrerequisites(
	ctx context.Context,
	userID, itemID uuid.UUID,
) ([]*domain.Dependency, error) {
	if _, err := ownedItem(ctx, s.items, userID, itemID, false); err != nil {
		return nil, wrapUnexpected("dependency", "list prerequisites", err)
	}
	deps, err := s.deps.FindBySourceItemID(ctx, itemID)
	if err != nil {
		return nil, wrapUnexpected("dependency", "list prerequisites", err)
	}
	return deps, nil
}

// ListDependents implements DependencyService.ListDependents
func (s *dependencyServiceImpl) ListDependents(
	ctx context.Context,
	userID, itemID uuid.UUID,
) ([]*domain.Dependency, error) {
	if _, err := ownedItem(ctx, s.items, userID, itemID, false); err != nil {
		return nil, wrapUnexpected("dependency", "list dependents", err)
	}
	deps, err := s.deps.FindByTargetItemID(ctx, itemID)
	if err != nil {
		return nil, wrapUnexpected("dependency", "list dependents", err)
	}
	return deps, nil
}

// CheckDependency implements DependencyService.CheckDependency
func (s *dependencyServiceImpl) CheckDependency(
	ctx context.Context,
	userID, sourceItemID, targetItemID uuid.UUID,
) (depgraph.Verdict, error) {
	if sourceItemID == targetItemID {
		return depgraph.VerdictSelfLoop, nil
	}
	for _, id := range []uuid.UUID{sourceItemID, targetItemID} {
		if _, err := ownedItem(ctx, s.items, userID, id, false); err != nil {
			return depgraph.VerdictAllowed, wrapUnexpected("dependency", "check", err)
		}
	}
	verdict, err := s.engineOf(s.deps).Check(ctx, sourceItemID, targetItemID)
	if err != nil {
		return depgraph.VerdictAllowed, wrapUnexpected("dependency", "check", err)
	}
	return verdict, nil
}
