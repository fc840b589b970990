package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/service/auth"
)

// Guard resolves tokens to user identities and checks resource ownership.
// It is the single place where both checks happen.
type Guard interface {
	// Authenticate validates a bearer token and returns the user it was
	// issued for. Every failure matches domain.ErrUnauthorized; the token
	// service's specific error stays in the chain.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)

	// Authorize returns ErrNotOwned unless ownerID is userID.
	Authorize(ctx context.Context, userID, ownerID uuid.UUID) error
}

type ownershipGuard struct {
	tokens auth.JWTService
}

var _ Guard = (*ownershipGuard)(nil)

// NewGuard creates the ownership Guard backed by the token service.
func NewGuard(tokens auth.JWTService) (Guard, error) {
	if tokens == nil {
		return nil, errors.New("token service cannot be nil")
	}
	return &ownershipGuard{tokens: tokens}, nil
}

// Authenticate implements Guard.
func (g *ownershipGuard) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, auth.ErrMissingToken)
	}

	claims, err := g.tokens.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, auth.ErrMalformedToken)
	}

	return claims.UserID, nil
}

// Authorize implements Guard.
func (g *ownershipGuard) Authorize(_ context.Context, userID, ownerID uuid.UUID) error {
	if userID == uuid.Nil || userID != ownerID {
		return ErrNotOwned
	}
	return nil
}
