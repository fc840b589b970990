package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	label := uuid.New()
	deadline := time.Date(2025, 12, 1, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))

	task, err := NewTask(owner, " Ship report ", "", "", deadline, []uuid.UUID{label, label})
	require.NoError(t, err)

	assert.Equal(t, "Ship report", task.Title)
	assert.Equal(t, TaskStatusIncomplete, task.Status)
	assert.Equal(t, TaskPriorityMedium, task.Priority)
	assert.Equal(t, []uuid.UUID{label}, task.LabelIDs)
	assert.Equal(t, time.UTC, task.Deadline.Location())
	assert.True(t, task.Deadline.Equal(deadline))
}

func TestTaskValidation(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	deadline := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name        string
		title       string
		description string
		priority    TaskPriority
		deadline    time.Time
		labels      []uuid.UUID
		wantErr     error
	}{
		{name: "missing title", title: "  ", deadline: deadline, wantErr: ErrRequired},
		{name: "title too long", title: strings.Repeat("t", 101), deadline: deadline, wantErr: ErrTooLong},
		{name: "title at limit", title: strings.Repeat("t", 100), deadline: deadline},
		{name: "description too long", title: "ok", description: strings.Repeat("d", 501), deadline: deadline, wantErr: ErrTooLong},
		{name: "bad priority", title: "ok", priority: "urgent", deadline: deadline, wantErr: ErrInvalidPriority},
		{name: "missing deadline", title: "ok", wantErr: ErrRequired},
		{name: "nil label", title: "ok", deadline: deadline, labels: []uuid.UUID{uuid.Nil}, wantErr: ErrInvalidID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTask(owner, tc.title, tc.description, tc.priority, tc.deadline, tc.labels)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTaskSetStatus(t *testing.T) {
	t.Parallel()
	task, err := NewTask(uuid.New(), "flip", "", TaskPriorityLow, time.Now(), nil)
	require.NoError(t, err)
	task.UpdatedAt = time.Time{}

	changed, err := task.SetStatus(TaskStatusComplete)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, TaskStatusComplete, task.Status)
	stamped := task.UpdatedAt
	assert.False(t, stamped.IsZero())

	changed, err = task.SetStatus(TaskStatusComplete)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, stamped, task.UpdatedAt)

	changed, err = task.SetStatus(TaskStatusIncomplete)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = task.SetStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTaskLabels(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	shared := []uuid.UUID{a, b}
	task := &Task{LabelIDs: shared}

	assert.True(t, task.HasLabel(b))
	assert.True(t, task.RemoveLabel(a))
	assert.False(t, task.RemoveLabel(a))
	assert.Equal(t, []uuid.UUID{b}, task.LabelIDs)
	assert.Equal(t, a, shared[0], "removal must not mutate the caller's slice")
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := &Task{Status: TaskStatusIncomplete, Deadline: now.Add(-time.Hour)}
	done := &Task{Status: TaskStatusComplete, Deadline: now.Add(-time.Hour)}
	future := &Task{Status: TaskStatusIncomplete, Deadline: now.Add(time.Hour)}

	assert.True(t, past.IsOverdue(now))
	assert.False(t, done.IsOverdue(now))
	assert.False(t, future.IsOverdue(now))
}

func TestUniqueIDs(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, b, a, b}))
	assert.NotNil(t, UniqueIDs(nil))
	assert.Empty(t, UniqueIDs(nil))
}
