package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is a 32+ byte secret for tests.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns an AuthConfig suitable for tests.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   TestJWTSecret,
		TokenLifetimeMinutes:        30,
		RefreshTokenLifetimeMinutes: 7 * 24 * 60,
		BcryptCost:                  4,
	}
}

// NewTestJWTService creates a JWT service with an injected clock and no
// clock-skew leeway, so expiry boundaries are exact in tests.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        lifetime,
		refreshTokenLifetime: 24 * lifetime,
		timeFunc:             timeFunc,
	}
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// GenerateAuthHeaderForTestingT returns "Bearer <token>" for userID.
func GenerateAuthHeaderForTestingT(t *testing.T, svc JWTService, userID uuid.UUID) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}
