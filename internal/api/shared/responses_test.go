package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithJSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithJSON(rec, httptest.NewRequest(http.MethodDelete, "/", nil), http.StatusNoContent, map[string]int{"n": 1})
	assert.Empty(t, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	ctx := logger.WithLogger(SetTraceID(context.Background()), log)
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	cause := errors.New("dial postgres://app:hunter2@db:5432/tracker: refused")
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to list learning items", cause)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Failed to list learning items", body.Error)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, GetTraceID(ctx), entries[0]["trace_id"])
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	_, ok := UserID(context.Background())
	assert.False(t, ok)

	_, ok = UserID(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok, "nil user is not authenticated")

	id := uuid.New()
	got, ok := UserID(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
