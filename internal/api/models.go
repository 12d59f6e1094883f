package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/domain/depgraph"
	"github.com/phrazzld/learning-tracker/internal/service"
)

// Request bodies

// CreateItemRequest defines the payload for POST /items.
type CreateItemRequest struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Title      string    `json:"title"       validate:"required"`
	Kind       string    `json:"kind"        validate:"required,oneof=course book certification other"`
	Modules    []string  `json:"modules"     validate:"omitempty,max=500,dive,required"`
}

// UpdateStatusRequest defines the payload for the item and module status endpoints.
// The allowed values depend on the entity and are checked by the domain.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AddModulesRequest defines the payload for POST /items/{id}/modules.
type AddModulesRequest struct {
	Titles []string `json:"titles" validate:"required,min=1,max=500,dive,required"`
}

// RenameModuleRequest defines the payload for PATCH /modules/{id}.
type RenameModuleRequest struct {
	Title string `json:"title" validate:"required"`
}

// ReorderModulesRequest defines the payload for PUT /items/{id}/modules/order.
type ReorderModulesRequest struct {
	Modules []ModuleOrderRequest `json:"modules" validate:"required,min=1,dive"`
}

// ModuleOrderRequest assigns one module its new position.
type ModuleOrderRequest struct {
	ID    uuid.UUID `json:"id"    validate:"required"`
	Order *int      `json:"order" validate:"required,min=0"`
}

// AddDependencyRequest defines the payload for POST /items/{id}/dependencies.
// The path item is the source; TargetItemID must be completed first.
type AddDependencyRequest struct {
	TargetItemID uuid.UUID `json:"target_item_id" validate:"required"`
}

// CheckDependencyRequest defines the payload for POST /dependencies/check.
type CheckDependencyRequest struct {
	SourceItemID uuid.UUID `json:"source_item_id" validate:"required"`
	TargetItemID uuid.UUID `json:"target_item_id" validate:"required"`
}

// CreateCategoryRequest defines the payload for POST /categories.
type CreateCategoryRequest struct {
	Name  string `json:"name"  validate:"required"`
	Color string `json:"color" validate:"required"`
}

// UpdateCategoryRequest defines the payload for PATCH /categories/{id}.
// Omitted fields are left unchanged.
type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// CreateTagRequest defines the payload for POST /tags.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
}

// Response bodies

// ItemResponse represents a learning item. Progress is the cached
// completion percentage of its modules.
type ItemResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemDetailsResponse is an item with its modules and tags.
type ItemDetailsResponse struct {
	ItemResponse
	Modules []ModuleResponse `json:"modules"`
	Tags    []TagResponse    `json:"tags"`
}

// ModuleResponse represents a module of a learning item.
type ModuleResponse struct {
	ID             uuid.UUID `json:"id"`
	LearningItemID uuid.UUID `json:"learning_item_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DependencyResponse represents a prerequisite edge.
type DependencyResponse struct {
	ID           uuid.UUID `json:"id"`
	SourceItemID uuid.UUID `json:"source_item_id"`
	TargetItemID uuid.UUID `json:"target_item_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DependencyCheckResponse reports whether a proposed edge may be added.
type DependencyCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Verdict string `json:"verdict"`
}

// CategoryResponse represents a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagResponse represents a tag.
type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func itemToResponse(item *domain.LearningItem) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		CategoryID: item.CategoryID,
		Title:      item.Title,
		Kind:       string(item.Kind),
		Status:     item.Status.String(),
		Progress:   item.Progress.Value(),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func itemsToResponse(items []*domain.LearningItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out
}

func itemDetailsToResponse(details *service.ItemDetails) ItemDetailsResponse {
	return ItemDetailsResponse{
		ItemResponse: itemToResponse(details.Item),
		Modules:      modulesToResponse(details.Modules),
		Tags:         tagsToResponse(details.Tags),
	}
}

func moduleToResponse(m *domain.Module) ModuleResponse {
	return ModuleResponse{
		ID:             m.ID,
		LearningItemID: m.LearningItemID,
		Title:          m.Title,
		Status:         m.Status.String(),
		Order:          m.Order,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func modulesToResponse(modules []*domain.Module) []ModuleResponse {
	out := make([]ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleToResponse(m))
	}
	return out
}

func dependencyToResponse(d *domain.Dependency) DependencyResponse {
	return DependencyResponse{
		ID:           d.ID,
		SourceItemID: d.SourceItemID,
		TargetItemID: d.TargetItemID,
		CreatedAt:    d.CreatedAt,
	}
}

func dependenciesToResponse(deps []*domain.Dependency) []DependencyResponse {
	out := make([]DependencyResponse, 0, len(deps))
	for _, d := range deps {
		out = append(out, dependencyToResponse(d))
	}
	return out
}

func verdictToResponse(v depgraph.Verdict) DependencyCheckResponse {
	return DependencyCheckResponse{
		Allowed: v == depgraph.VerdictAllowed,
		Verdict: v.String(),
	}
}

func categoryToResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func categoriesToResponse(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryToResponse(c))
	}
	return out
}

func tagToResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}

func tagsToResponse(tags []*domain.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagToResponse(t))
	}
	return out
}
