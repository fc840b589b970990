package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task field limits.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 500
)

// TaskStatus is the completion flag of a task. Transitions between the two
// values are unrestricted.
type TaskStatus string

const (
	TaskStatusIncomplete TaskStatus = "incomplete"
	TaskStatusComplete   TaskStatus = "complete"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusIncomplete || s == TaskStatusComplete
}

// TaskPriority ranks a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work owned by a single user. The owner never changes.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    time.Time    `json:"deadline"`
	LabelIDs    []uuid.UUID  `json:"label_ids"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a validated, incomplete task. An empty priority defaults to
// medium and duplicate label IDs are collapsed.
func NewTask(
	userID uuid.UUID,
	title string,
	description string,
	priority TaskPriority,
	deadline time.Time,
	labelIDs []uuid.UUID,
) (*Task, error) {
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := Now()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      TaskStatusIncomplete,
		Priority:    priority,
		Deadline:    StoredTime(deadline),
		LabelIDs:    UniqueIDs(labelIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks every task field.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateTaskDescription(t.Description); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "must be incomplete or complete", ErrInvalidStatus)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "must be low, medium, or high", ErrInvalidPriority)
	}
	if t.Deadline.IsZero() {
		return NewValidationError("deadline", "is required", ErrRequired)
	}
	for _, id := range t.LabelIDs {
		if id == uuid.Nil {
			return NewValidationError("label_ids", "contains an empty ID", ErrInvalidID)
		}
	}
	return nil
}

// SetStatus changes the status and refreshes UpdatedAt. It reports whether
// anything changed; setting the current status is a no-op.
func (t *Task) SetStatus(status TaskStatus) (bool, error) {
	if !status.IsValid() {
		return false, NewValidationError("status", "must be incomplete or complete", ErrInvalidStatus)
	}
	if t.Status == status {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = Now()
	return true, nil
}

// IsOverdue reports whether an incomplete task's deadline has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == TaskStatusIncomplete && t.Deadline.Before(now)
}

// HasLabel reports whether the task references labelID.
func (t *Task) HasLabel(labelID uuid.UUID) bool {
	for _, id := range t.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// RemoveLabel drops labelID from the task's label set.
func (t *Task) RemoveLabel(labelID uuid.UUID) bool {
	for i, id := range t.LabelIDs {
		if id == labelID {
			t.LabelIDs = append(t.LabelIDs[:i:i], t.LabelIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ValidateTaskTitle checks the title is present and at most 100 characters.
func ValidateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "is required", ErrRequired)
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 100 characters", ErrTooLong)
	}
	return nil
}

// ValidateTaskDescription checks the description is at most 500 characters.
func ValidateTaskDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxTaskDescriptionLength {
		return NewValidationError("description", "must be at most 500 characters", ErrTooLong)
	}
	return nil
}

// UniqueIDs returns ids without duplicates, keeping first-seen order.
// A nil input yields an empty, non-nil slice.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
