package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/service"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// ModuleHandler handles module HTTP requests.
type ModuleHandler struct {
	modules service.ModuleService
	logger  *slog.Logger
}

// NewModuleHandler creates a new ModuleHandler.
func NewModuleHandler(modules service.ModuleService, logger *slog.Logger) *ModuleHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ModuleHandler")
	}
	return &ModuleHandler{
		modules: modules,
		logger:  logger.With(slog.String("component", "module_handler")),
	}
}

// ListModules handles GET /items/{id}/modules.
// Optional query parameters: sort (order, title, created_at, status) and
// direction (asc, desc).
func (h *ModuleHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	opts, err := parseModuleListOptions(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	modules, err := h.modules.ListModules(r.Context(), userID, itemID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list modules")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, modulesToResponse(modules))
}

func parseModuleListOptions(r *http.Request) (store.ModuleListOptions, error) {
	var opts store.ModuleListOptions
	q := r.URL.Query()

	switch sortBy := store.ModuleOrderBy(q.Get("sort")); sortBy {
	case "":
	case store.ModuleOrderByPosition, store.ModuleOrderByTitle,
		store.ModuleOrderByCreatedAt, store.ModuleOrderByStatus:
		opts.OrderBy = sortBy
	default:
		return opts, domain.NewValidationError("sort", fmt.Sprintf("has invalid value %q", sortBy), nil)
	}

	switch dir := store.SortDirection(q.Get("direction")); dir {
	case "":
	case store.SortAsc, store.SortDesc:
		opts.Order = dir
	default:
		return opts, domain.NewValidationError("direction", fmt.Sprintf("has invalid value %q", dir), nil)
	}
	return opts, nil
}

// AddModules handles POST /items/{id}/modules.
func (h *ModuleHandler) AddModules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddModulesRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	modules, err := h.modules.AddModules(r.Context(), userID, itemID, req.Titles)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add modules")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, modulesToResponse(modules))
}

// ReorderModules handles PUT /items/{id}/modules/order.
func (h *ModuleHandler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReorderModulesRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	orders := make([]domain.ModuleOrder, 0, len(req.Modules))
	for _, m := range req.Modules {
		orders = append(orders, domain.ModuleOrder{ID: m.ID, Order: *m.Order})
	}

	if err := h.modules.ReorderModules(r.Context(), userID, itemID, orders); err != nil {
		HandleAPIError(w, r, err, "Failed to reorder modules")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateModuleStatus handles PATCH /modules/{id}/status.
func (h *ModuleHandler) UpdateModuleStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, moduleID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	status, err := domain.ParseModuleStatus(req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	module, err := h.modules.UpdateModuleStatus(r.Context(), userID, moduleID, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update module status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, moduleToResponse(module))
}

// RenameModule handles PATCH /modules/{id}.
func (h *ModuleHandler) RenameModule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, moduleID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req RenameModuleRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	module, err := h.modules.RenameModule(r.Context(), userID, moduleID, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename module")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, moduleToResponse(module))
}

// RemoveModule handles DELETE /modules/{id}.
func (h *ModuleHandler) RemoveModule(w http.ResponseWriter, r *http.Request) {
	userID, moduleID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.modules.RemoveModule(r.Context(), userID, moduleID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove module")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
