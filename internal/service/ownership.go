package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// ownedItem loads an item and checks it belongs to userID.
// When forUpdate is set the row stays locked until the transaction ends.
func ownedItem(
	ctx context.Context,
	items store.LearningItemStore,
	userID, itemID uuid.UUID,
	forUpdate bool,
) (*domain.LearningItem, error) {
	var (
		item *domain.LearningItem
		err  error
	)
	if forUpdate {
		item, err = items.GetForUpdate(ctx, itemID)
	} else {
		item, err = items.GetByID(ctx, itemID)
	}
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(userID) {
		return nil, ErrNotOwned
	}
	return item, nil
}

// ownedModule loads a module together with its owning item, checking the
// item belongs to userID. With forUpdate the item row is locked first and the
// module is read again under that lock, so status checks see the latest
// committed module rather than the one read before the lock was granted.
func ownedModule(
	ctx context.Context,
	items store.LearningItemStore,
	modules store.ModuleStore,
	userID, moduleID uuid.UUID,
	forUpdate bool,
) (*domain.Module, *domain.LearningItem, error) {
	module, err := modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}
	item, err := ownedItem(ctx, items, userID, module.LearningItemID, forUpdate)
	if err != nil {
		return nil, nil, err
	}
	if !forUpdate {
		return module, item, nil
	}

	module, err = modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}
	if module.LearningItemID != item.ID {
		return nil, nil, store.ErrModuleNotFound
	}
	return module, item, nil
}
