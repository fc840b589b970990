package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredTime(t *testing.T) {
	t.Parallel()
	in := time.Date(2025, 12, 1, 1, 0, 0, 123456789, time.FixedZone("CET", 3600))

	got := StoredTime(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 123000000, time.UTC), got)
	assert.Equal(t, got, StoredTime(got))
	assert.Zero(t, Now().Nanosecond()%int(StoredPrecision))
}

func TestNewTaskStoresDeadlineAtStoredPrecision(t *testing.T) {
	t.Parallel()
	deadline := time.Date(2025, 12, 1, 0, 0, 0, 123456789, time.UTC)

	task, err := NewTask(uuid.New(), "Ship report", "", "", deadline, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 123000000, time.UTC), task.Deadline)
	assert.Equal(t, task.CreatedAt, StoredTime(task.CreatedAt))
	assert.Equal(t, task.UpdatedAt, StoredTime(task.UpdatedAt))
}
