package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestTaskService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	label, err := f.labelSvc.CreateLabel(ctx, alice, "Work", "")
	require.NoError(t, err)

	deadline := time.Date(2025, 12, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	created, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
		Title:       "  Write report ",
		Description: "Quarterly numbers",
		Deadline:    deadline,
		LabelIDs:    []uuid.UUID{label.ID, label.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, domain.TaskStatusIncomplete, created.Status)
	assert.Equal(t, domain.TaskPriorityMedium, created.Priority)
	assert.Equal(t, time.UTC, created.Deadline.Location())
	assert.Equal(t, []uuid.UUID{label.ID}, created.LabelIDs)

	got, err := f.taskSvc.GetTask(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.True(t, created.Deadline.Equal(got.Deadline))
	assert.Equal(t, created.LabelIDs, got.LabelIDs)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()
	deadline := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		input service.NewTaskInput
	}{
		{name: "missing title", input: service.NewTaskInput{Deadline: deadline}},
		{name: "missing deadline", input: service.NewTaskInput{Title: "x"}},
		{name: "bad priority", input: service.NewTaskInput{Title: "x", Deadline: deadline, Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.taskSvc.CreateTask(ctx, alice, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Zero(t, f.tasks.Len())
}

func TestTaskService_LabelReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()
	bob := uuid.New()
	deadline := time.Now().Add(time.Hour)

	bobLabel, err := f.labelSvc.CreateLabel(ctx, bob, "Bob only", "")
	require.NoError(t, err)

	t.Run("foreign label on create", func(t *testing.T) {
		_, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
			Title: "x", Deadline: deadline, LabelIDs: []uuid.UUID{bobLabel.ID},
		})
		assert.ErrorIs(t, err, service.ErrInvalidLabelReference)
	})

	t.Run("missing label on create", func(t *testing.T) {
		_, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
			Title: "x", Deadline: deadline, LabelIDs: []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, service.ErrInvalidLabelReference)
	})

	t.Run("foreign label on update", func(t *testing.T) {
		task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "x", Deadline: deadline})
		require.NoError(t, err)

		_, err = f.taskSvc.UpdateTask(ctx, alice, task.ID, service.TaskPatch{
			LabelIDs: &[]uuid.UUID{bobLabel.ID},
		})
		assert.ErrorIs(t, err, service.ErrInvalidLabelReference)
	})
}

func TestTaskService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()
	mallory := uuid.New()

	task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
		Title: "Secret", Deadline: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = f.taskSvc.GetTask(ctx, mallory, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = f.taskSvc.UpdateTask(ctx, mallory, task.ID, service.TaskPatch{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = f.taskSvc.SetStatus(ctx, mallory, task.ID, domain.TaskStatusComplete)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = f.taskSvc.DeleteTask(ctx, mallory, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	tasks, total, err := f.taskSvc.ListTasks(ctx, mallory, store.TaskFilter{}, store.FirstPage())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)

	got, err := f.taskSvc.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", got.Title)
	assert.Equal(t, domain.TaskStatusIncomplete, got.Status)
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
		Title: "Draft", Description: "first", Deadline: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	newDeadline := time.Now().Add(48 * time.Hour)
	updated, err := f.taskSvc.UpdateTask(ctx, alice, task.ID, service.TaskPatch{
		Title:    ptr("Final"),
		Priority: ptr(domain.TaskPriorityHigh),
		Deadline: &newDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "first", updated.Description, "unset fields keep their value")
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	assert.Equal(t, domain.StoredTime(newDeadline), updated.Deadline, "patched deadline is stored at millisecond precision")
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

	t.Run("invalid patch is not persisted", func(t *testing.T) {
		_, err := f.taskSvc.UpdateTask(ctx, alice, task.ID, service.TaskPatch{Status: ptr(domain.TaskStatus("done"))})
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := f.taskSvc.GetTask(ctx, alice, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusIncomplete, got.Status)
	})
}

func TestTaskService_SetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "Toggle", Deadline: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	done, err := f.taskSvc.SetStatus(ctx, alice, task.ID, domain.TaskStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusComplete, done.Status)
	assert.Equal(t, 1, f.tasks.UpdateCallCount)

	again, err := f.taskSvc.SetStatus(ctx, alice, task.ID, domain.TaskStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusComplete, again.Status)
	assert.Equal(t, done.UpdatedAt, again.UpdatedAt)
	assert.Equal(t, 1, f.tasks.UpdateCallCount, "setting the current status does not write")

	back, err := f.taskSvc.SetStatus(ctx, alice, task.ID, domain.TaskStatusIncomplete)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusIncomplete, back.Status)

	_, err = f.taskSvc.SetStatus(ctx, alice, task.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "Bye", Deadline: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	require.NoError(t, f.taskSvc.DeleteTask(ctx, alice, task.ID))
	_, err = f.taskSvc.GetTask(ctx, alice, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = f.taskSvc.DeleteTask(ctx, alice, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	work, err := f.labelSvc.CreateLabel(ctx, alice, "Work", "")
	require.NoError(t, err)

	base := time.Now().Add(time.Hour)
	seed := []struct {
		title    string
		priority domain.TaskPriority
		offset   time.Duration
		labels   []uuid.UUID
		complete bool
	}{
		{title: "t1", priority: domain.TaskPriorityLow, offset: 3 * time.Hour, labels: []uuid.UUID{work.ID}},
		{title: "t2", priority: domain.TaskPriorityHigh, offset: 1 * time.Hour},
		{title: "t3", priority: domain.TaskPriorityHigh, offset: 2 * time.Hour, labels: []uuid.UUID{work.ID}, complete: true},
	}
	for _, s := range seed {
		task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
			Title: s.title, Priority: s.priority, Deadline: base.Add(s.offset), LabelIDs: s.labels,
		})
		require.NoError(t, err)
		if s.complete {
			_, err = f.taskSvc.SetStatus(ctx, alice, task.ID, domain.TaskStatusComplete)
			require.NoError(t, err)
		}
		time.Sleep(time.Millisecond)
	}

	titles := func(tasks []*domain.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.Title)
		}
		return out
	}

	tests := []struct {
		name   string
		filter store.TaskFilter
		want   []string
	}{
		{name: "default newest first", filter: store.TaskFilter{}, want: []string{"t3", "t2", "t1"}},
		{name: "oldest first", filter: store.TaskFilter{Sort: store.SortOldest}, want: []string{"t1", "t2", "t3"}},
		{name: "by deadline", filter: store.TaskFilter{Sort: store.SortDeadline}, want: []string{"t2", "t3", "t1"}},
		{name: "status", filter: store.TaskFilter{Status: ptr(domain.TaskStatusComplete)}, want: []string{"t3"}},
		{name: "priority", filter: store.TaskFilter{Priority: ptr(domain.TaskPriorityHigh)}, want: []string{"t3", "t2"}},
		{name: "label", filter: store.TaskFilter{LabelID: &work.ID}, want: []string{"t3", "t1"}},
		{
			name: "combined filters",
			filter: store.TaskFilter{
				LabelID:  &work.ID,
				Status:   ptr(domain.TaskStatusIncomplete),
				Priority: ptr(domain.TaskPriorityLow),
			},
			want: []string{"t1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := f.taskSvc.ListTasks(ctx, alice, tt.filter, store.FirstPage())
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(tasks))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}

	t.Run("invalid filter", func(t *testing.T) {
		_, _, err := f.taskSvc.ListTasks(ctx, alice, store.TaskFilter{Sort: "title"}, store.FirstPage())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("pages are disjoint and total is stable", func(t *testing.T) {
		seen := make(map[uuid.UUID]bool)
		for number := 1; number <= 2; number++ {
			page, err := store.NewPage(number, 2)
			require.NoError(t, err)
			tasks, total, err := f.taskSvc.ListTasks(ctx, alice, store.TaskFilter{}, page)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			for _, task := range tasks {
				assert.False(t, seen[task.ID])
				seen[task.ID] = true
			}
		}
		assert.Len(t, seen, 3)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := store.NewPage(5, 10)
		require.NoError(t, err)
		tasks, total, err := f.taskSvc.ListTasks(ctx, alice, store.TaskFilter{}, page)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Equal(t, int64(3), total)
	})
}

func TestTaskService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	_, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "later", Deadline: future})
	require.NoError(t, err)
	_, err = f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "late", Deadline: past})
	require.NoError(t, err)
	doneLate, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{Title: "done late", Deadline: past})
	require.NoError(t, err)
	_, err = f.taskSvc.SetStatus(ctx, alice, doneLate.ID, domain.TaskStatusComplete)
	require.NoError(t, err)
	_, err = f.taskSvc.CreateTask(ctx, uuid.New(), service.NewTaskInput{Title: "someone else", Deadline: past})
	require.NoError(t, err)

	stats, err := f.taskSvc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, store.TaskStats{Total: 3, Incomplete: 2, Complete: 1, Overdue: 1}, *stats)
}

// TestLabelDeletionScenario walks through creating, filtering by, and
// deleting a label.
func TestLabelDeletionScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	alice := uuid.New()

	work, err := f.labelSvc.CreateLabel(ctx, alice, "Work", "#3B82F6")
	require.NoError(t, err)

	deadline := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.taskSvc.CreateTask(ctx, alice, service.NewTaskInput{
		Title:    "Ship report",
		Deadline: deadline,
		LabelIDs: []uuid.UUID{work.ID},
	})
	require.NoError(t, err)

	tasks, total, err := f.taskSvc.ListTasks(ctx, alice, store.TaskFilter{LabelID: &work.ID}, store.FirstPage())
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, task.ID, tasks[0].ID)

	result, err := f.labelSvc.DeleteLabel(ctx, alice, work.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TasksUpdated)

	got, err := f.taskSvc.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LabelIDs)
	assert.True(t, deadline.Equal(got.Deadline))

	tasks, total, err = f.taskSvc.ListTasks(ctx, alice, store.TaskFilter{LabelID: &work.ID}, store.FirstPage())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
}
