package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/service"
)

// AuthMiddleware authenticates bearer tokens through the ownership Guard.
type AuthMiddleware struct {
	guard service.Guard
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(guard service.Guard) *AuthMiddleware {
	if guard == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("guard cannot be nil for AuthMiddleware")
	}
	return &AuthMiddleware{guard: guard}
}

// Authenticate validates the Authorization header and adds the user ID to
// the request context. Every failure is a 401 with the same body so clients
// cannot tell a bad signature from an expired token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		userID, err := m.guard.Authenticate(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "unauthorized",
				"Invalid or expired authentication token", err, shared.WithElevatedLogLevel())
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(slog.String("user_id", userID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
