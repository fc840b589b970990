package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
)

// LabelStore defines the interface for label persistence. Mutations are
// always scoped by owner; GetByID is not, so callers must authorize the
// returned label.
type LabelStore interface {
	// Create saves a new label.
	// Returns ErrLabelNameExists if the owner already has a label with that name.
	Create(ctx context.Context, label *domain.Label) error

	// GetByID retrieves a label by ID regardless of owner.
	// Returns ErrLabelNotFound if the label does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error)

	// Update persists name, color, and UpdatedAt for a label owned by label.UserID.
	// Returns ErrLabelNotFound or ErrLabelNameExists.
	Update(ctx context.Context, label *domain.Label) error

	// Delete removes the owner's label.
	// Returns ErrLabelNotFound if no such label exists for the owner.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List returns one page of the owner's labels ordered by creation time
	// ascending, plus the owner's total label count.
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Label, int64, error)

	// CountOwned returns how many of ids are labels owned by userID.
	CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
