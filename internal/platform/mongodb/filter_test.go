package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTaskQuery(t *testing.T) {
	userID := uuid.New()
	labelID := uuid.New()
	status := domain.TaskStatusComplete
	priority := domain.TaskPriorityHigh

	tests := []struct {
		name   string
		filter store.TaskFilter
		want   bson.D
	}{
		{
			name:   "owner only",
			filter: store.TaskFilter{},
			want:   bson.D{{Key: "user_id", Value: userID.String()}},
		},
		{
			name:   "all fields",
			filter: store.TaskFilter{Status: &status, Priority: &priority, LabelID: &labelID},
			want: bson.D{
				{Key: "user_id", Value: userID.String()},
				{Key: "status", Value: "complete"},
				{Key: "priority", Value: "high"},
				{Key: "label_ids", Value: labelID.String()},
			},
		},
		{
			name:   "label only",
			filter: store.TaskFilter{LabelID: &labelID},
			want: bson.D{
				{Key: "user_id", Value: userID.String()},
				{Key: "label_ids", Value: labelID.String()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, taskQuery(userID, tt.filter))
		})
	}
}

func TestTaskSort(t *testing.T) {
	tests := []struct {
		sort store.TaskSort
		want bson.D
	}{
		{sort: "", want: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
		{sort: store.SortNewest, want: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
		{sort: store.SortOldest, want: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{sort: store.SortDeadline, want: bson.D{{Key: "deadline", Value: 1}, {Key: "_id", Value: 1}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, taskSort(tt.sort))
		})
	}
}

func TestPageOptions(t *testing.T) {
	page, err := store.NewPage(3, 20)
	assert.NoError(t, err)

	opts := pageOptions(page, taskSort(store.SortNewest))
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)

	opts = pageOptions(store.Page{}, nil)
	assert.Equal(t, int64(0), *opts.Skip)
	assert.Equal(t, int64(store.DefaultPageSize), *opts.Limit)
}

func TestTaskDocumentRoundTrip(t *testing.T) {
	task, err := domain.NewTask(uuid.New(), "Ship", "", "", mustTime(t), []uuid.UUID{uuid.New()})
	assert.NoError(t, err)

	got, err := newTaskDocument(task).toDomain()
	assert.NoError(t, err)
	assert.Equal(t, task.LabelIDs, got.LabelIDs)
	assert.Equal(t, task.UserID, got.UserID)

	doc := newTaskDocument(task)
	doc.LabelIDs = []string{"not-a-uuid"}
	_, err = doc.toDomain()
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	var storeErr *store.StoreError
	if assert.ErrorAs(t, err, &storeErr) {
		assert.Equal(t, TasksCollection, storeErr.Entity)
		assert.Equal(t, "decode", storeErr.Operation)
	}
}

func TestTaskDocumentBSONRoundTripKeepsTimestamps(t *testing.T) {
	deadline := time.Date(2025, 12, 1, 0, 0, 0, 123456789, time.UTC)
	task, err := domain.NewTask(uuid.New(), "Ship", "", "", deadline, nil)
	require.NoError(t, err)

	raw, err := bson.Marshal(newTaskDocument(task))
	require.NoError(t, err)
	var doc taskDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	got, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, task.Deadline, got.Deadline)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
	assert.Equal(t, task.UpdatedAt, got.UpdatedAt)
}

func TestIDStringsNeverNil(t *testing.T) {
	assert.NotNil(t, idStrings(nil))
	assert.Empty(t, idStrings(nil))
}
