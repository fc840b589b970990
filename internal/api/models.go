package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/store"
)

// Request/response structures. Binding checks shape and length here; the
// domain constructors remain the authority on field rules.

// SignupRequest defines the payload for the user signup endpoint.
type SignupRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by signup, login, and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    string    `json:"expires_at"`
}

// UpdateProfileRequest defines the payload for PATCH /auth/me.
type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name"     validate:"omitempty,max=50"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password"     validate:"omitempty,min=8,max=72"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string      `json:"title"       validate:"required,max=100"`
	Description string      `json:"description" validate:"max=500"`
	Priority    string      `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time  `json:"deadline"    validate:"required"`
	LabelIDs    []uuid.UUID `json:"label_ids"`
}

// UpdateTaskRequest defines the payload for PUT and PATCH /tasks/{id}.
// Omitted fields keep their current value.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"       validate:"omitempty,max=100"`
	Description *string      `json:"description" validate:"omitempty,max=500"`
	Status      *string      `json:"status"      validate:"omitempty,oneof=incomplete complete"`
	Priority    *string      `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time   `json:"deadline"`
	LabelIDs    *[]uuid.UUID `json:"label_ids"`
}

func (req UpdateTaskRequest) patch() service.TaskPatch {
	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		LabelIDs:    req.LabelIDs,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	return patch
}

// UpdateStatusRequest defines the payload for PATCH /tasks/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=incomplete complete"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	Deadline    time.Time   `json:"deadline"`
	LabelIDs    []uuid.UUID `json:"label_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func newTaskResponse(t *domain.Task) TaskResponse {
	labelIDs := t.LabelIDs
	if labelIDs == nil {
		labelIDs = []uuid.UUID{}
	}
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Deadline:    t.Deadline,
		LabelIDs:    labelIDs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CreateLabelRequest defines the payload for POST /labels.
type CreateLabelRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

// UpdateLabelRequest defines the payload for PUT and PATCH /labels/{id}.
type UpdateLabelRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

// LabelResponse is the public view of a label.
type LabelResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newLabelResponse(l *domain.Label) LabelResponse {
	return LabelResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Name:      l.Name,
		Color:     l.Color,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// LabelWithTaskCountResponse is a label in GET /labels, with the number of
// the caller's tasks that reference it.
type LabelWithTaskCountResponse struct {
	LabelResponse
	TaskCount int64 `json:"task_count"`
}

func newLabelWithTaskCountResponse(l *service.LabelWithTaskCount) LabelWithTaskCountResponse {
	return LabelWithTaskCountResponse{
		LabelResponse: newLabelResponse(l.Label),
		TaskCount:     l.TaskCount,
	}
}

// DeleteLabelResponse reports the cascade performed by DELETE /labels/{id}.
type DeleteLabelResponse struct {
	Message      string `json:"message"`
	TasksUpdated int64  `json:"tasks_updated"`
	Warning      string `json:"warning,omitempty"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse is a page of items with paging metadata.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

func newListResponse[E, T any](items []E, convert func(E) T, total int64, page store.Page) ListResponse[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	pages := int64(0)
	if page.Size > 0 {
		pages = (total + int64(page.Size) - 1) / int64(page.Size)
	}
	return ListResponse[T]{
		Items:      out,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: pages,
	}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
