package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// UpdateCategoryParams holds optional changes to a category. Nil fields are
// left untouched.
type UpdateCategoryParams struct {
	Name  *string
	Color *string
}

// CategoryService manages a user's categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Category, error)
	UpdateCategory(
		ctx context.Context,
		userID, categoryID uuid.UUID,
		params UpdateCategoryParams,
	) (*domain.Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)
	// DeleteCategory fails with store.ErrCategoryInUse while items still use it.
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

type categoryServiceImpl struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories store.CategoryStore, logger *slog.Logger) (CategoryService, error) {
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryServiceImpl{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_service")),
	}, nil
}

func (s *categoryServiceImpl) ownedCategory(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, ErrNotOwned
	}
	return category, nil
}

// CreateCategory implements CategoryService.CreateCategory
func (s *categoryServiceImpl) CreateCategory(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	category, err := domain.NewCategory(userID, name, color)
	if err != nil {
		log.WarnContext(ctx, "invalid category", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, wrapUnexpected("category", "create", err)
	}

	log.InfoContext(ctx, "category created", slog.String("category_id", category.ID.String()))
	return category, nil
}

// UpdateCategory implements CategoryService.UpdateCategory
func (s *categoryServiceImpl) UpdateCategory(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	params UpdateCategoryParams,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("category_id", categoryID.String()))

	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, wrapUnexpected("category", "update", err)
	}
	if params.Name != nil {
		if err := category.Rename(*params.Name); err != nil {
			return nil, err
		}
	}
	if params.Color != nil {
		if err := category.Recolor(*params.Color); err != nil {
			return nil, err
		}
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, wrapUnexpected("category", "update", err)
	}

	log.InfoContext(ctx, "category updated")
	return category, nil
}

// ListCategories implements CategoryService.ListCategories
func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapUnexpected("category", "list", err)
	}
	return categories, nil
}

// DeleteCategory implements CategoryService.DeleteCategory
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("category_id", categoryID.String()))

	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return wrapUnexpected("category", "delete", err)
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		log.WarnContext(ctx, "category not deleted", slog.String("error", err.Error()))
		return wrapUnexpected("category", "delete", err)
	}

	log.InfoContext(ctx, "category deleted")
	return nil
}
