package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/store"
)

// MockLabelStore is an in-memory store.LabelStore.
type MockLabelStore struct {
	CreateFn     func(ctx context.Context, label *domain.Label) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	UpdateFn     func(ctx context.Context, label *domain.Label) error
	DeleteFn     func(ctx context.Context, userID, id uuid.UUID) error
	ListFn       func(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Label, int64, error)
	CountOwnedFn func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)

	mu     sync.Mutex
	labels map[uuid.UUID]domain.Label
}

var _ store.LabelStore = (*MockLabelStore)(nil)

// NewMockLabelStore creates an empty in-memory label store.
func NewMockLabelStore() *MockLabelStore {
	return &MockLabelStore{labels: make(map[uuid.UUID]domain.Label)}
}

func (m *MockLabelStore) nameTaken(label *domain.Label) bool {
	for id, existing := range m.labels {
		if id != label.ID && existing.UserID == label.UserID && existing.Name == label.Name {
			return true
		}
	}
	return false
}

// Create implements store.LabelStore.
func (m *MockLabelStore) Create(ctx context.Context, label *domain.Label) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, label)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(label) {
		return store.ErrLabelNameExists
	}
	m.labels[label.ID] = *label
	return nil
}

// GetByID implements store.LabelStore.
func (m *MockLabelStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	label, ok := m.labels[id]
	if !ok {
		return nil, store.ErrLabelNotFound
	}
	return &label, nil
}

// Update implements store.LabelStore.
func (m *MockLabelStore) Update(ctx context.Context, label *domain.Label) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, label)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.labels[label.ID]
	if !ok || existing.UserID != label.UserID {
		return store.ErrLabelNotFound
	}
	if m.nameTaken(label) {
		return store.ErrLabelNameExists
	}
	existing.Name = label.Name
	existing.Color = label.Color
	existing.UpdatedAt = label.UpdatedAt
	m.labels[label.ID] = existing
	return nil
}

// Delete implements store.LabelStore.
func (m *MockLabelStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.labels[id]
	if !ok || existing.UserID != userID {
		return store.ErrLabelNotFound
	}
	delete(m.labels, id)
	return nil
}

// List implements store.LabelStore.
func (m *MockLabelStore) List(
	ctx context.Context,
	userID uuid.UUID,
	page store.Page,
) ([]*domain.Label, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, page)
	}

	m.mu.Lock()
	owned := make([]domain.Label, 0, len(m.labels))
	for _, label := range m.labels {
		if label.UserID == userID {
			owned = append(owned, label)
		}
	}
	m.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.Before(owned[j].CreatedAt)
		}
		return owned[i].ID.String() < owned[j].ID.String()
	})

	window := paginate(len(owned), page)
	result := make([]*domain.Label, 0, window.end-window.start)
	for i := window.start; i < window.end; i++ {
		label := owned[i]
		result = append(result, &label)
	}
	return result, int64(len(owned)), nil
}

// CountOwned implements store.LabelStore.
func (m *MockLabelStore) CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if m.CountOwnedFn != nil {
		return m.CountOwnedFn(ctx, userID, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range domain.UniqueIDs(ids) {
		if label, ok := m.labels[id]; ok && label.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored labels across all owners.
func (m *MockLabelStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.labels)
}

func (m *MockLabelStore) snapshot() map[uuid.UUID]domain.Label {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uuid.UUID]domain.Label, len(m.labels))
	for id, label := range m.labels {
		snap[id] = label
	}
	return snap
}

func (m *MockLabelStore) restore(snap map[uuid.UUID]domain.Label) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = snap
}

type window struct{ start, end int }

func paginate(n int, page store.Page) window {
	if page.Size == 0 {
		page = store.FirstPage()
	}
	start := int(page.Skip())
	if start > n {
		start = n
	}
	end := start + page.Size
	if end > n {
		end = n
	}
	return window{start: start, end: end}
}
