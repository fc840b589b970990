package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/mocks"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGuard is a testify mock of service.Guard
type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockGuard) Authorize(ctx context.Context, userID, ownerID uuid.UUID) error {
	args := m.Called(ctx, userID, ownerID)
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newGuard(t *testing.T) service.Guard {
	t.Helper()
	guard, err := service.NewGuard(auth.RequireTestJWTService(t))
	require.NoError(t, err)
	return guard
}

// fixture wires the label and task services over shared in-memory stores.
type fixture struct {
	tasks    *mocks.MockTaskStore
	labels   *mocks.MockLabelStore
	uow      *mocks.MockUnitOfWork
	taskSvc  service.TaskService
	labelSvc service.LabelService
}

func newFixture(t *testing.T, transactional bool) *fixture {
	t.Helper()
	f := &fixture{
		tasks:  mocks.NewMockTaskStore(),
		labels: mocks.NewMockLabelStore(),
	}
	f.uow = mocks.NewMockUnitOfWork(f.tasks, f.labels, transactional)

	guard := newGuard(t)
	var err error
	f.taskSvc, err = service.NewTaskService(f.tasks, f.labels, guard, quietLogger())
	require.NoError(t, err)
	f.labelSvc, err = service.NewLabelService(f.labels, f.tasks, f.uow, guard, quietLogger())
	require.NoError(t, err)
	return f
}
