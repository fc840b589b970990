package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/api/middleware"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddleware(t *testing.T, tokens auth.JWTService) *middleware.AuthMiddleware {
	t.Helper()
	guard, err := service.NewGuard(tokens)
	require.NoError(t, err)
	return middleware.NewAuthMiddleware(guard)
}

// echoUserID writes the user ID the middleware stored in the context.
var echoUserID = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(userID.String()))
})

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	tokens := auth.RequireTestJWTService(t)
	userID := uuid.New()
	valid := auth.GenerateAuthHeaderForTestingT(t, tokens, userID)

	refresh, err := tokens.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredSvc := auth.NewTestJWTService(auth.TestJWTSecret, time.Minute, func() time.Time { return past })
	expired := auth.GenerateAuthHeaderForTestingT(t, expiredSvc, userID)

	other := auth.NewTestJWTService("another-secret-that-is-at-least-32-chars", time.Hour, time.Now)
	wrongSecret := auth.GenerateAuthHeaderForTestingT(t, other, userID)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", valid, http.StatusOK},
		{"lower-case scheme", "bearer " + valid[len("Bearer "):], http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"scheme only", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired token", expired, http.StatusUnauthorized},
		{"wrong secret", wrongSecret, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
	}

	mw := newAuthMiddleware(t, tokens)
	handler := mw.Authenticate(echoUserID)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "unauthorized", body.Code)
		})
	}
}

func TestAuthMiddlewareUniformErrors(t *testing.T) {
	t.Parallel()

	tokens := auth.RequireTestJWTService(t)
	past := time.Now().Add(-2 * time.Hour)
	expiredSvc := auth.NewTestJWTService(auth.TestJWTSecret, time.Minute, func() time.Time { return past })
	handler := newAuthMiddleware(t, tokens).Authenticate(echoUserID)

	bodyFor := func(header string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	expired := bodyFor(auth.GenerateAuthHeaderForTestingT(t, expiredSvc, uuid.New()))
	garbage := bodyFor("Bearer garbage")
	assert.Equal(t, garbage, expired, "expired and invalid tokens must be indistinguishable")
}

func TestNewAuthMiddlewarePanicsWithoutGuard(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { middleware.NewAuthMiddleware(nil) })
}
