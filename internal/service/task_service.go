package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// NewTaskInput carries the fields of a task to create.
type NewTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	Deadline    time.Time
	LabelIDs    []uuid.UUID
}

// TaskPatch carries the optional changes for UpdateTask. Nil fields keep
// their current value; a non-nil LabelIDs replaces the whole label set.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	Deadline    *time.Time
	LabelIDs    *[]uuid.UUID
}

// TaskService manages a user's tasks.
type TaskService interface {
	// CreateTask creates an incomplete task. Every label ID must belong to
	// userID or the call fails with ErrInvalidLabelReference.
	CreateTask(ctx context.Context, userID uuid.UUID, input NewTaskInput) (*domain.Task, error)

	// GetTask returns one of the user's tasks.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update and refreshes UpdatedAt.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, patch TaskPatch) (*domain.Task, error)

	// SetStatus moves the task to status. Setting the current status is a
	// successful no-op.
	SetStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// ListTasks returns a filtered page of the user's tasks and the number of
	// matches across all pages.
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error)

	// Stats summarizes the user's tasks.
	Stats(ctx context.Context, userID uuid.UUID) (*store.TaskStats, error)
}

type taskService struct {
	tasks  store.TaskStore
	labels store.LabelStore
	guard  Guard
	logger *slog.Logger
	now    func() time.Time
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	labels store.LabelStore,
	guard Guard,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil || labels == nil {
		return nil, &ServiceError{Service: "task service", Operation: "create_service", Message: "task and label stores are required"}
	}
	if guard == nil {
		return nil, &ServiceError{Service: "task service", Operation: "create_service", Message: "guard cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskService{
		tasks:  tasks,
		labels: labels,
		guard:  guard,
		logger: log.With(slog.String("component", "task_service")),
		now:    time.Now,
	}, nil
}

// CreateTask implements TaskService.
func (s *taskService) CreateTask(ctx context.Context, userID uuid.UUID, input NewTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(userID, input.Title, input.Description, input.Priority, input.Deadline, input.LabelIDs)
	if err != nil {
		return nil, err
	}

	if err := s.checkLabels(ctx, userID, task.LabelIDs); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewServiceError("task service", "create_task", "failed to save task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("label_count", len(task.LabelIDs)))
	return task, nil
}

// GetTask implements TaskService.
func (s *taskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.fetchOwned(ctx, userID, taskID)
}

// UpdateTask implements TaskService.
func (s *taskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch TaskPatch,
) (*domain.Task, error) {
	task, err := s.fetchOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Deadline != nil {
		task.Deadline = domain.StoredTime(*patch.Deadline)
	}
	if patch.LabelIDs != nil {
		task.LabelIDs = domain.UniqueIDs(*patch.LabelIDs)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if patch.LabelIDs != nil {
		if err := s.checkLabels(ctx, userID, task.LabelIDs); err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = domain.StoredTime(s.now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewServiceError("task service", "update_task", "failed to save task", err)
	}

	return task, nil
}

// SetStatus implements TaskService.
func (s *taskService) SetStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	task, err := s.fetchOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	changed, err := task.SetStatus(status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return task, nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewServiceError("task service", "set_status", "failed to save task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task status changed",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(status)))
	return task, nil
}

// DeleteTask implements TaskService.
func (s *taskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		return NewServiceError("task service", "delete_task", "failed to delete task", err)
	}
	return nil
}

// ListTasks implements TaskService.
func (s *taskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	if filter.Sort == "" {
		filter.Sort = store.SortNewest
	}

	tasks, total, err := s.tasks.List(ctx, userID, filter, page)
	if err != nil {
		return nil, 0, NewServiceError("task service", "list_tasks", "failed to list tasks", err)
	}
	return tasks, total, nil
}

// Stats implements TaskService.
func (s *taskService) Stats(ctx context.Context, userID uuid.UUID) (*store.TaskStats, error) {
	stats, err := s.tasks.Stats(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, NewServiceError("task service", "stats", "failed to compute task stats", err)
	}
	return stats, nil
}

// fetchOwned loads a task and hides it unless userID owns it.
func (s *taskService) fetchOwned(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("task service", "get_task", "failed to retrieve task", err)
	}

	if err := s.guard.Authorize(ctx, userID, task.UserID); err != nil {
		if errors.Is(err, ErrNotOwned) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("task access denied",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// checkLabels verifies that every ID in ids names a label owned by userID.
func (s *taskService) checkLabels(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	owned, err := s.labels.CountOwned(ctx, userID, ids)
	if err != nil {
		return NewServiceError("task service", "check_labels", "failed to verify labels", err)
	}
	if owned != int64(len(ids)) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task references foreign or missing labels",
			slog.String("user_id", userID.String()),
			slog.Int("requested", len(ids)),
			slog.Int64("owned", owned))
		return ErrInvalidLabelReference
	}
	return nil
}
