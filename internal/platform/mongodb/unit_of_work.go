package mongodb

import (
	"context"

	"github.com/phrazzld/taskly-api/internal/store"
)

// UnitOfWork runs functions directly against the regular stores. It is not
// transactional.
type UnitOfWork struct {
	tasks  *TaskStore
	labels *LabelStore
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork groups tasks and labels.
func NewUnitOfWork(tasks *TaskStore, labels *LabelStore) *UnitOfWork {
	return &UnitOfWork{tasks: tasks, labels: labels}
}

// Transactional implements store.UnitOfWork.
func (u *UnitOfWork) Transactional() bool {
	return false
}

// Run implements store.UnitOfWork.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	return fn(ctx, store.Stores{Tasks: u.tasks, Labels: u.labels})
}
