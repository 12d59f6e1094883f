package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/service"
)

// DependencyHandler handles prerequisite edges between learning items.
type DependencyHandler struct {
	dependencies service.DependencyService
	logger       *slog.Logger
}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler(dependencies service.DependencyService, logger *slog.Logger) *DependencyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DependencyHandler")
	}
	return &DependencyHandler{
		dependencies: dependencies,
		logger:       logger.With(slog.String("component", "dependency_handler")),
	}
}

// AddDependency handles POST /items/{id}/dependencies.
func (h *DependencyHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sourceID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddDependencyRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	dep, err := h.dependencies.AddDependency(r.Context(), userID, sourceID, req.TargetItemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add dependency")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, dependencyToResponse(dep))
}

// ListPrerequisites handles GET /items/{id}/dependencies.
func (h *DependencyHandler) ListPrerequisites(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	deps, err := h.dependencies.ListPrerequisites(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list dependencies")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dependenciesToResponse(deps))
}

// ListDependents handles GET /items/{id}/dependents.
func (h *DependencyHandler) ListDependents(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	deps, err := h.dependencies.ListDependents(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list dependents")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dependenciesToResponse(deps))
}

// CheckDependency handles POST /dependencies/check. A rejected edge is a
// successful check: the verdict is reported with 200.
func (h *DependencyHandler) CheckDependency(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CheckDependencyRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	verdict, err := h.dependencies.CheckDependency(r.Context(), userID, req.SourceItemID, req.TargetItemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check dependency")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, verdictToResponse(verdict))
}

// RemoveDependency handles DELETE /dependencies/{id}.
func (h *DependencyHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	userID, depID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.dependencies.RemoveDependency(r.Context(), userID, depID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove dependency")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
