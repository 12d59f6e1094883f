package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/service"
)

// ItemHandler handles learning item HTTP requests.
type ItemHandler struct {
	items  service.LearningItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items service.LearningItemService, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ItemHandler")
	}
	return &ItemHandler{
		items:  items,
		logger: logger.With(slog.String("component", "item_handler")),
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	details, err := h.items.CreateItem(r.Context(), userID, service.CreateItemParams{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Kind:       domain.ItemKind(req.Kind),
		Modules:    req.Modules,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create learning item")
		return
	}

	log.InfoContext(r.Context(), "learning item created",
		slog.String("user_id", userID.String()),
		slog.String("item_id", details.Item.ID.String()),
		slog.Int("module_count", len(details.Modules)))
	shared.RespondWithJSON(w, r, http.StatusCreated, itemDetailsToResponse(details))
}

// ListItems handles GET /items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	items, err := h.items.ListItems(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list learning items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// GetItem handles GET /items/{id}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	details, err := h.items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get learning item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemDetailsToResponse(details))
}

// UpdateItemStatus handles PATCH /items/{id}/status.
func (h *ItemHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	status, err := domain.ParseItemStatus(req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.items.UpdateItemStatus(r.Context(), userID, itemID, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update learning item status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// RefreshProgress handles POST /items/{id}/progress/refresh.
func (h *ItemHandler) RefreshProgress(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	item, err := h.items.RefreshProgress(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /items/{id}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.items.DeleteItem(r.Context(), userID, itemID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete learning item")
		return
	}

	log.InfoContext(r.Context(), "learning item deleted",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()))
	w.WriteHeader(http.StatusNoContent)
}
