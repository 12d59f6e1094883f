package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/service"
	"github.com/phrazzld/learning-tracker/internal/service/auth"
	"github.com/phrazzld/learning-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"wrapped token error", fmt.Errorf("authenticate: %w", auth.ErrExpiredToken), http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"item not found", store.ErrLearningItemNotFound, http.StatusNotFound},
		{"self dependency", service.ErrSelfDependency, http.StatusUnprocessableEntity},
		{
			"circular dependency in service error",
			service.NewServiceError("dependency", "add", "rejected", service.ErrCircularDependency),
			http.StatusUnprocessableEntity,
		},
		{"cross item module", service.ErrCrossItemModule, http.StatusUnprocessableEntity},
		{"duplicate dependency", service.ErrDuplicateDependency, http.StatusConflict},
		{"duplicate name", store.ErrCategoryNameExists, http.StatusConflict},
		{"category in use", store.ErrCategoryInUse, http.StatusConflict},
		{
			"invalid transition",
			&domain.InvalidTransitionError{Entity: "module", From: "Concluido", To: "Pendente"},
			http.StatusConflict,
		},
		{"validation", domain.NewValidationError("title", "cannot be empty", nil), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{
			"invariant violation",
			&domain.InvariantViolationError{Rule: "progress", Detail: "completed > total"},
			http.StatusInternalServerError,
		},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"module not found", store.ErrModuleNotFound, "Module not found"},
		{
			"circular dependency",
			fmt.Errorf("add: %w", service.ErrCircularDependency),
			"Dependency would create a circular reference in the dependency chain",
		},
		{"self dependency", service.ErrSelfDependency, "An item cannot depend on itself"},
		{
			"invalid transition names both statuses",
			&domain.InvalidTransitionError{Entity: "learning item", From: "Concluido", To: "Backlog"},
			"Cannot change learning item status from Concluido to Backlog",
		},
		{
			"validation names field and rule",
			domain.NewValidationError("color", `must be a hex color, got "blue"`, nil),
			`Invalid color: must be a hex color, got "blue"`,
		},
		{
			"internal details are hidden",
			errors.New("pq: relation \"learning_items\" does not exist"),
			"An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("uses fallback for server errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)

		HandleAPIError(rec, req, errors.New("postgres://user:secret@db/tracker is down"), "Failed to list learning items")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body shared.ErrorResponse
		require.NoError(t, decodeBody(rec, &body))
		assert.Equal(t, "Failed to list learning items", body.Error)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("keeps safe message for client errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)

		HandleAPIError(rec, req, store.ErrLearningItemNotFound, "Failed to get learning item")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body shared.ErrorResponse
		require.NoError(t, decodeBody(rec, &body))
		assert.Equal(t, "Learning item not found", body.Error)
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&AddModulesRequest{})
	require.Error(t, err)
	assert.Equal(t, "Invalid titles: required field", SanitizeValidationError(err))

	err = shared.ValidateRequest(&CreateItemRequest{Title: "SICP", Kind: "podcast"})
	require.Error(t, err)
	msg := SanitizeValidationError(err)
	assert.Contains(t, msg, "category_id: required field")
	assert.Contains(t, msg, "kind: must be one of course book certification other")

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
