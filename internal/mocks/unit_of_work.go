package mocks

import (
	"context"

	"github.com/phrazzld/taskly-api/internal/store"
)

// MockUnitOfWork runs functions against a pair of in-memory stores. When
// Atomic is set it reports itself transactional and restores both stores
// to their prior state if fn fails.
type MockUnitOfWork struct {
	Tasks  *MockTaskStore
	Labels *MockLabelStore
	Atomic bool

	// RunCallCount tracks how many times Run was called
	RunCallCount int
}

var _ store.UnitOfWork = (*MockUnitOfWork)(nil)

// NewMockUnitOfWork wraps tasks and labels.
func NewMockUnitOfWork(tasks *MockTaskStore, labels *MockLabelStore, atomic bool) *MockUnitOfWork {
	return &MockUnitOfWork{Tasks: tasks, Labels: labels, Atomic: atomic}
}

// Transactional implements store.UnitOfWork.
func (u *MockUnitOfWork) Transactional() bool {
	return u.Atomic
}

// Run implements store.UnitOfWork.
func (u *MockUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	u.RunCallCount++
	stores := store.Stores{Tasks: u.Tasks, Labels: u.Labels}
	if !u.Atomic {
		return fn(ctx, stores)
	}

	taskSnap := u.Tasks.snapshot()
	labelSnap := u.Labels.snapshot()
	if err := fn(ctx, stores); err != nil {
		u.Tasks.restore(taskSnap)
		u.Labels.restore(labelSnap)
		return err
	}
	return nil
}
