package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/mocks"
	"github.com/phrazzld/learning-tracker/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tests := []struct {
		name           string
		header         string
		validateErr    error
		expectedStatus int
		expectedBody   string
	}{
		{"valid token", "Bearer good-token", nil, http.StatusOK, ""},
		{"lowercase scheme", "bearer good-token", nil, http.StatusOK, ""},
		{"missing header", "", nil, http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"empty token", "Bearer   ", nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"expired token", "Bearer old", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"invalid token", "Bearer forged", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"not yet valid", "Bearer early", auth.ErrTokenNotYetValid, http.StatusUnauthorized, "Invalid token"},
		{
			"unexpected failure",
			"Bearer any",
			errors.New("key store unavailable"),
			http.StatusInternalServerError,
			"Authentication error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			jwtService := mocks.ForUser(userID)
			jwtService.ValidateErr = tc.validateErr
			if tc.validateErr != nil {
				jwtService.Claims = nil
			}

			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(jwtService).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, userID, seen)
				return
			}
			assert.Contains(t, rec.Body.String(), tc.expectedBody)
			assert.Equal(t, uuid.Nil, seen)
		})
	}
}

func TestAuthenticatePassesTrimmedToken(t *testing.T) {
	t.Parallel()

	var got string
	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			got = token
			return &auth.Claims{UserID: uuid.New()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	rec := httptest.NewRecorder()
	NewAuthMiddleware(jwtService).Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, req)

	assert.Equal(t, "abc.def.ghi", got)
}
