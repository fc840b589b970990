package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
)

// TaskStats summarizes a user's tasks.
type TaskStats struct {
	Total      int64 `json:"total"`
	Incomplete int64 `json:"incomplete"`
	Complete   int64 `json:"complete"`
	Overdue    int64 `json:"overdue"`
}

// TaskStore defines the interface for task persistence. Mutations are always
// scoped by owner; GetByID is not, so callers must authorize the returned task.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists every mutable field of a task owned by task.UserID.
	// Returns ErrTaskNotFound if no such task exists for the owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the owner's task.
	// Returns ErrTaskNotFound if no such task exists for the owner.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List returns one page of the owner's tasks matching filter, plus the
	// number of matching tasks across all pages.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter, page Page) ([]*domain.Task, int64, error)

	// RemoveLabel pulls labelID from every task owned by userID and returns
	// the number of tasks modified.
	RemoveLabel(ctx context.Context, userID, labelID uuid.UUID) (int64, error)

	// CountByLabel returns, for each of labelIDs, how many of the owner's
	// tasks reference it. Labels no task references map to zero.
	CountByLabel(ctx context.Context, userID uuid.UUID, labelIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// Stats counts the owner's tasks by status; a task is overdue when it is
	// incomplete and its deadline is before now.
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*TaskStats, error)
}

// Stores groups the stores that take part in a unit of work.
type Stores struct {
	Tasks  TaskStore
	Labels LabelStore
}

// UnitOfWork runs a function against stores that share one atomic scope.
// Backends without multi-document transactions report Transactional() ==
// false and run fn directly against the regular stores.
type UnitOfWork interface {
	Transactional() bool
	Run(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
