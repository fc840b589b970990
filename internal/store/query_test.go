package store

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		number   int
		size     int
		wantSize int
		wantSkip int64
		wantErr  bool
	}{
		{name: "defaults size", number: 1, size: 0, wantSize: 10, wantSkip: 0},
		{name: "second page", number: 2, size: 2, wantSize: 2, wantSkip: 2},
		{name: "clamps size", number: 3, size: 500, wantSize: 100, wantSkip: 200},
		{name: "zero page", number: 0, size: 10, wantErr: true},
		{name: "negative page", number: -1, size: 10, wantErr: true},
		{name: "negative size", number: 1, size: -5, wantErr: true},
		{name: "last allowed page", number: MaxPageNumber, size: 100, wantSize: 100, wantSkip: int64(MaxPageNumber-1) * 100},
		{name: "page beyond cap", number: MaxPageNumber + 1, size: 10, wantErr: true},
		{name: "page that would overflow skip", number: math.MaxInt / 10, size: 100, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			page, err := NewPage(tc.number, tc.size)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSize, page.Size)
			assert.Equal(t, int64(tc.wantSize), page.Limit())
			assert.Equal(t, tc.wantSkip, page.Skip())
		})
	}
}

func TestParseTaskSort(t *testing.T) {
	t.Parallel()

	sort, err := ParseTaskSort("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, sort)

	for _, s := range []TaskSort{SortNewest, SortOldest, SortDeadline} {
		got, err := ParseTaskSort(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err = ParseTaskSort("title")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskFilterMatches(t *testing.T) {
	t.Parallel()

	work := uuid.New()
	task := &domain.Task{
		Status:   domain.TaskStatusIncomplete,
		Priority: domain.TaskPriorityHigh,
		LabelIDs: []uuid.UUID{work},
	}

	incomplete := domain.TaskStatusIncomplete
	complete := domain.TaskStatusComplete
	high := domain.TaskPriorityHigh
	low := domain.TaskPriorityLow
	other := uuid.New()

	tests := []struct {
		name   string
		filter TaskFilter
		want   bool
	}{
		{name: "empty filter", filter: TaskFilter{}, want: true},
		{name: "status match", filter: TaskFilter{Status: &incomplete}, want: true},
		{name: "status mismatch", filter: TaskFilter{Status: &complete}, want: false},
		{name: "all fields match", filter: TaskFilter{Status: &incomplete, Priority: &high, LabelID: &work}, want: true},
		{name: "one field mismatch", filter: TaskFilter{Status: &incomplete, Priority: &low, LabelID: &work}, want: false},
		{name: "label mismatch", filter: TaskFilter{LabelID: &other}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.filter.Matches(task))
		})
	}
}

func TestTaskFilterValidate(t *testing.T) {
	t.Parallel()

	bogus := domain.TaskStatus("pending")
	assert.ErrorIs(t, TaskFilter{Status: &bogus}.Validate(), domain.ErrInvalidStatus)

	urgent := domain.TaskPriority("urgent")
	assert.ErrorIs(t, TaskFilter{Priority: &urgent}.Validate(), domain.ErrInvalidPriority)

	assert.ErrorIs(t, TaskFilter{Sort: "random"}.Validate(), domain.ErrValidation)
	assert.NoError(t, TaskFilter{}.Validate())
}
