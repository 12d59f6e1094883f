package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// progressChange describes a cached progress update to announce after commit.
type progressChange struct {
	item *domain.LearningItem
	from float64
}

// refreshItemProgress recounts the item's modules and persists the cached
// progress when it moved. It must run inside the transaction that changed
// the modules, with the item row locked.
func refreshItemProgress(
	ctx context.Context,
	items store.LearningItemStore,
	modules store.ModuleStore,
	item *domain.LearningItem,
) (*progressChange, error) {
	counts, err := modules.CountByLearningItemID(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	from := item.Progress.Value()
	changed, err := item.RefreshProgress(counts.Completed, counts.Total)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	if err := items.UpdateProgress(ctx, item); err != nil {
		return nil, err
	}
	return &progressChange{item: item, from: from}, nil
}

// emit publishes an event after the surrounding transaction committed.
// Emission failures are logged and never undo the committed change.
func emit(
	ctx context.Context,
	emitter events.EventEmitter,
	log *slog.Logger,
	build func() (*events.DomainEvent, error),
) {
	if emitter == nil {
		return
	}
	event, err := build()
	if err != nil {
		log.ErrorContext(ctx, "failed to build domain event", slog.String("error", err.Error()))
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "failed to emit domain event",
			slog.String("error", err.Error()),
			slog.String("event_type", event.Type))
	}
}

// emitProgress publishes item.progress_changed for a non-nil change.
func emitProgress(ctx context.Context, emitter events.EventEmitter, log *slog.Logger, change *progressChange) {
	if change == nil {
		return
	}
	emit(ctx, emitter, log, func() (*events.DomainEvent, error) {
		return events.NewDomainEvent(events.TypeItemProgressChanged, change.item.UserID, change.item.ID,
			events.ProgressChangedPayload{From: change.from, To: change.item.Progress.Value()})
	})
}
