package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/service"
)

// TagHandler handles tags and their attachment to learning items.
type TagHandler struct {
	tags   service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags service.TagService, logger *slog.Logger) *TagHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TagHandler")
	}
	return &TagHandler{
		tags:   tags,
		logger: logger.With(slog.String("component", "tag_handler")),
	}
}

// CreateTag handles POST /tags.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateTagRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tag")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tagToResponse(tag))
}

// ListTags handles GET /tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	tags, err := h.tags.ListTags(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// DeleteTag handles DELETE /tags/{id}.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.tags.DeleteTag(r.Context(), userID, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItemTags handles GET /items/{id}/tags.
func (h *TagHandler) ListItemTags(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	tags, err := h.tags.ListItemTags(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list item tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// AttachTag handles PUT /items/{id}/tags/{tagId}. Attaching twice is not an error.
func (h *TagHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	tagID, err := getPathUUID(r, "tagId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tags.AttachTag(r.Context(), userID, itemID, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to attach tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetachTag handles DELETE /items/{id}/tags/{tagId}.
func (h *TagHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	tagID, err := getPathUUID(r, "tagId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tags.DetachTag(r.Context(), userID, itemID, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to detach tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
