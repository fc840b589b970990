package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn       func(ctx context.Context, userID, id uuid.UUID) error
	ListFn         func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error)
	RemoveLabelFn  func(ctx context.Context, userID, labelID uuid.UUID) (int64, error)
	CountByLabelFn func(ctx context.Context, userID uuid.UUID, labelIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	StatsFn        func(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error)

	// UpdateCallCount tracks how many times Update reached the store.
	UpdateCallCount int

	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
}

func copyTask(t domain.Task) *domain.Task {
	t.LabelIDs = append([]uuid.UUID{}, t.LabelIDs...)
	return &t
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *copyTask(*task)
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	m.UpdateCallCount++
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	updated := copyTask(*task)
	updated.CreatedAt = existing.CreatedAt
	m.tasks[task.ID] = *updated
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[id]
	if !ok || existing.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter, page)
	}

	m.mu.Lock()
	matched := make([]*domain.Task, 0)
	for _, task := range m.tasks {
		t := copyTask(task)
		if t.UserID == userID && filter.Matches(t) {
			matched = append(matched, t)
		}
	}
	m.mu.Unlock()

	sortTasks(matched, filter.Sort)
	w := paginate(len(matched), page)
	return matched[w.start:w.end], int64(len(matched)), nil
}

func sortTasks(tasks []*domain.Task, order store.TaskSort) {
	less := func(a, b *domain.Task) (bool, bool) {
		switch order {
		case store.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt), !a.CreatedAt.Equal(b.CreatedAt)
		case store.SortDeadline:
			return a.Deadline.Before(b.Deadline), !a.Deadline.Equal(b.Deadline)
		default:
			return a.CreatedAt.After(b.CreatedAt), !a.CreatedAt.Equal(b.CreatedAt)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if result, decided := less(tasks[i], tasks[j]); decided {
			return result
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
}

// RemoveLabel implements store.TaskStore.
func (m *MockTaskStore) RemoveLabel(ctx context.Context, userID, labelID uuid.UUID) (int64, error) {
	if m.RemoveLabelFn != nil {
		return m.RemoveLabelFn(ctx, userID, labelID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var modified int64
	for id, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		t := copyTask(task)
		if t.RemoveLabel(labelID) {
			t.UpdatedAt = time.Now().UTC()
			m.tasks[id] = *t
			modified++
		}
	}
	return modified, nil
}

// CountByLabel implements store.TaskStore.
func (m *MockTaskStore) CountByLabel(
	ctx context.Context,
	userID uuid.UUID,
	labelIDs []uuid.UUID,
) (map[uuid.UUID]int64, error) {
	if m.CountByLabelFn != nil {
		return m.CountByLabelFn(ctx, userID, labelIDs)
	}

	counts := make(map[uuid.UUID]int64, len(labelIDs))
	for _, id := range labelIDs {
		counts[id] = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		for _, id := range task.LabelIDs {
			if _, ok := counts[id]; ok {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// Stats implements store.TaskStore.
func (m *MockTaskStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &store.TaskStats{}
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		stats.Total++
		if task.Status == domain.TaskStatusComplete {
			stats.Complete++
		} else {
			stats.Incomplete++
		}
		if task.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

// Len returns the number of stored tasks across all owners.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *MockTaskStore) snapshot() map[uuid.UUID]domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uuid.UUID]domain.Task, len(m.tasks))
	for id, task := range m.tasks {
		snap[id] = *copyTask(task)
	}
	return snap
}

func (m *MockTaskStore) restore(snap map[uuid.UUID]domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = snap
}
