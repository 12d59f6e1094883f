package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var inner string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = shared.GetTraceID(r.Context())
		shared.RespondWithError(w, r, http.StatusTeapot, "short and stout")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	traceID := rec.Header().Get(TraceIDHeader)
	require.Len(t, traceID, shared.TraceIDLength*2)
	assert.Equal(t, traceID, inner)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trace_id":"`+traceID+`"`)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEqual(t, traceID, rec2.Header().Get(TraceIDHeader))
}
