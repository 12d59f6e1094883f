package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// TagService manages a user's tags and their attachment to learning items.
type TagService interface {
	// CreateTag normalizes name before storing it.
	CreateTag(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)
	ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)
	ListItemTags(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error
	// AttachTag is idempotent.
	AttachTag(ctx context.Context, userID, itemID, tagID uuid.UUID) error
	DetachTag(ctx context.Context, userID, itemID, tagID uuid.UUID) error
}

type tagServiceImpl struct {
	tags   store.TagStore
	items  store.LearningItemStore
	logger *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(tags store.TagStore, items store.LearningItemStore, logger *slog.Logger) (TagService, error) {
	if tags == nil {
		return nil, domain.NewValidationError("tags", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tagServiceImpl{
		tags:   tags,
		items:  items,
		logger: logger.With(slog.String("component", "tag_service")),
	}, nil
}

func (s *tagServiceImpl) ownedTag(ctx context.Context, userID, tagID uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag.UserID != userID {
		return nil, ErrNotOwned
	}
	return tag, nil
}

// CreateTag implements TagService.CreateTag
func (s *tagServiceImpl) CreateTag(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tag, err := domain.NewTag(userID, name)
	if err != nil {
		log.WarnContext(ctx, "invalid tag", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, wrapUnexpected("tag", "create", err)
	}

	log.InfoContext(ctx, "tag created", slog.String("tag_id", tag.ID.String()), slog.String("name", tag.Name))
	return tag, nil
}

// ListTags implements TagService.ListTags
func (s *tagServiceImpl) ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	tags, err := s.tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapUnexpected("tag", "list", err)
	}
	return tags, nil
}

// ListItemTags implements TagService.ListItemTags
func (s *tagServiceImpl) ListItemTags(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Tag, error) {
	if _, err := ownedItem(ctx, s.items, userID, itemID, false); err != nil {
		return nil, wrapUnexpected("tag", "list item tags", err)
	}
	tags, err := s.tags.ListByItem(ctx, itemID)
	if err != nil {
		return nil, wrapUnexpected("tag", "list item tags", err)
	}
	return tags, nil
}

// DeleteTag implements TagService.DeleteTag
func (s *tagServiceImpl) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("tag_id", tagID.String()))

	if _, err := s.ownedTag(ctx, userID, tagID); err != nil {
		return wrapUnexpected("tag", "delete", err)
	}
	if err := s.tags.Delete(ctx, tagID); err != nil {
		return wrapUnexpected("tag", "delete", err)
	}

	log.InfoContext(ctx, "tag deleted")
	return nil
}

// AttachTag implements TagService.AttachTag
func (s *tagServiceImpl) AttachTag(ctx context.Context, userID, itemID, tagID uuid.UUID) error {
	if err := s.checkOwnership(ctx, userID, itemID, tagID); err != nil {
		return wrapUnexpected("tag", "attach", err)
	}
	if err := s.tags.AttachToItem(ctx, tagID, itemID); err != nil {
		return wrapUnexpected("tag", "attach", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).DebugContext(ctx, "tag attached",
		slog.String("tag_id", tagID.String()),
		slog.String("learning_item_id", itemID.String()))
	return nil
}

// DetachTag implements TagService.DetachTag
func (s *tagServiceImpl) DetachTag(ctx context.Context, userID, itemID, tagID uuid.UUID) error {
	if err := s.checkOwnership(ctx, userID, itemID, tagID); err != nil {
		return wrapUnexpected("tag", "detach", err)
	}
	if err := s.tags.DetachFromItem(ctx, tagID, itemID); err != nil {
		return wrapUnexpected("tag", "detach", err)
	}
	return nil
}

func (s *tagServiceImpl) checkOwnership(ctx context.Context, userID, itemID, tagID uuid.UUID) error {
	if _, err := ownedItem(ctx, s.items, userID, itemID, false); err != nil {
		return err
	}
	_, err := s.ownedTag(ctx, userID, tagID)
	return err
}
