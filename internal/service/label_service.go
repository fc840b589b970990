package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// CascadeWarning is reported when a label was deleted but removing it from
// the owner's tasks did not complete.
const CascadeWarning = "label deleted, but some tasks may still reference it"

// LabelPatch carries the optional changes for UpdateLabel.
type LabelPatch struct {
	Name  *string
	Color *string
}

// LabelDeletion reports the side effects of DeleteLabel.
type LabelDeletion struct {
	TasksUpdated int64
	Warning      string
}

// LabelWithTaskCount is a label plus the number of the owner's tasks that
// reference it.
type LabelWithTaskCount struct {
	Label     *domain.Label
	TaskCount int64
}

// LabelService manages a user's labels.
type LabelService interface {
	// CreateLabel creates a label; an empty color means the default color.
	// Returns store.ErrLabelNameExists if the user already has that name.
	CreateLabel(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Label, error)

	// GetLabel returns one of the user's labels.
	GetLabel(ctx context.Context, userID, labelID uuid.UUID) (*domain.Label, error)

	// UpdateLabel renames or recolors a label.
	UpdateLabel(ctx context.Context, userID, labelID uuid.UUID, patch LabelPatch) (*domain.Label, error)

	// DeleteLabel removes a label and pulls it from every task of the same
	// user. Tasks themselves are never deleted.
	DeleteLabel(ctx context.Context, userID, labelID uuid.UUID) (*LabelDeletion, error)

	// ListLabels returns a page of the user's labels, oldest first, each with
	// its task count.
	ListLabels(ctx context.Context, userID uuid.UUID, page store.Page) ([]*LabelWithTaskCount, int64, error)
}

type labelService struct {
	labels store.LabelStore
	tasks  store.TaskStore
	uow    store.UnitOfWork
	guard  Guard
	logger *slog.Logger
}

var _ LabelService = (*labelService)(nil)

// NewLabelService creates a LabelService. uow may be nil, in which case label
// deletion and the task cascade run as separate store calls.
func NewLabelService(
	labels store.LabelStore,
	tasks store.TaskStore,
	uow store.UnitOfWork,
	guard Guard,
	log *slog.Logger,
) (LabelService, error) {
	if labels == nil || tasks == nil {
		return nil, &ServiceError{Service: "label service", Operation: "create_service", Message: "label and task stores are required"}
	}
	if guard == nil {
		return nil, &ServiceError{Service: "label service", Operation: "create_service", Message: "guard cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}

	return &labelService{
		labels: labels,
		tasks:  tasks,
		uow:    uow,
		guard:  guard,
		logger: log.With(slog.String("component", "label_service")),
	}, nil
}

// CreateLabel implements LabelService.
func (s *labelService) CreateLabel(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Label, error) {
	label, err := domain.NewLabel(userID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.labels.Create(ctx, label); err != nil {
		return nil, NewServiceError("label service", "create_label", "failed to save label", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("label created",
		slog.String("label_id", label.ID.String()),
		slog.String("user_id", userID.String()))
	return label, nil
}

// GetLabel implements LabelService.
func (s *labelService) GetLabel(ctx context.Context, userID, labelID uuid.UUID) (*domain.Label, error) {
	return s.fetchOwned(ctx, userID, labelID)
}

// UpdateLabel implements LabelService.
func (s *labelService) UpdateLabel(
	ctx context.Context,
	userID, labelID uuid.UUID,
	patch LabelPatch,
) (*domain.Label, error) {
	label, err := s.fetchOwned(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		label.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		label.Color = *patch.Color
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}

	label.UpdatedAt = domain.Now()
	if err := s.labels.Update(ctx, label); err != nil {
		return nil, NewServiceError("label service", "update_label", "failed to save label", err)
	}

	return label, nil
}

// DeleteLabel implements LabelService.
func (s *labelService) DeleteLabel(ctx context.Context, userID, labelID uuid.UUID) (*LabelDeletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("label_id", labelID.String()),
		slog.String("user_id", userID.String()))

	if _, err := s.fetchOwned(ctx, userID, labelID); err != nil {
		return nil, err
	}

	if s.uow != nil && s.uow.Transactional() {
		result := &LabelDeletion{}
		err := s.uow.Run(ctx, func(ctx context.Context, stores store.Stores) error {
			if err := stores.Labels.Delete(ctx, userID, labelID); err != nil {
				return err
			}
			n, err := stores.Tasks.RemoveLabel(ctx, userID, labelID)
			result.TasksUpdated = n
			return err
		})
		if err != nil {
			return nil, NewServiceError("label service", "delete_label", "failed to delete label", err)
		}
		log.Debug("label deleted", slog.Int64("tasks_updated", result.TasksUpdated))
		return result, nil
	}

	if err := s.labels.Delete(ctx, userID, labelID); err != nil {
		return nil, NewServiceError("label service", "delete_label", "failed to delete label", err)
	}

	n, err := s.tasks.RemoveLabel(ctx, userID, labelID)
	if err != nil {
		log.Warn("label cascade incomplete",
			slog.String("error", err.Error()),
			slog.Int64("tasks_updated", n))
		return &LabelDeletion{TasksUpdated: n, Warning: CascadeWarning}, nil
	}

	log.Debug("label deleted", slog.Int64("tasks_updated", n))
	return &LabelDeletion{TasksUpdated: n}, nil
}

// ListLabels implements LabelService.
func (s *labelService) ListLabels(
	ctx context.Context,
	userID uuid.UUID,
	page store.Page,
) ([]*LabelWithTaskCount, int64, error) {
	labels, total, err := s.labels.List(ctx, userID, page)
	if err != nil {
		return nil, 0, NewServiceError("label service", "list_labels", "failed to list labels", err)
	}

	ids := make([]uuid.UUID, 0, len(labels))
	for _, label := range labels {
		ids = append(ids, label.ID)
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		counts, err = s.tasks.CountByLabel(ctx, userID, ids)
		if err != nil {
			return nil, 0, NewServiceError("label service", "list_labels", "failed to count label tasks", err)
		}
	}

	out := make([]*LabelWithTaskCount, 0, len(labels))
	for _, label := range labels {
		out = append(out, &LabelWithTaskCount{Label: label, TaskCount: counts[label.ID]})
	}
	return out, total, nil
}

// fetchOwned loads a label and hides it unless userID owns it.
func (s *labelService) fetchOwned(ctx context.Context, userID, labelID uuid.UUID) (*domain.Label, error) {
	label, err := s.labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, NewServiceError("label service", "get_label", "failed to retrieve label", err)
	}

	if err := s.guard.Authorize(ctx, userID, label.UserID); err != nil {
		if errors.Is(err, ErrNotOwned) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("label access denied",
				slog.String("label_id", labelID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrLabelNotFound
		}
		return nil, err
	}

	return label, nil
}
