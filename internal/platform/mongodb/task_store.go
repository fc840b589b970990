package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskStore implements store.TaskStore on the tasks collection.
type TaskStore struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore.
func NewTaskStore(db *mongo.Database, timeout time.Duration, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		coll:    db.Collection(TasksCollection),
		timeout: timeout,
		logger:  log.With(slog.String("component", "task_store")),
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, newTaskDocument(task)); err != nil {
		return mapError(err, nil, nil)
	}
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc taskDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, mapError(err, store.ErrTaskNotFound, nil)
	}
	return doc.toDomain()
}

// Update implements store.TaskStore.Update. The owner and creation time are
// never rewritten.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	doc := newTaskDocument(task)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: doc.Title},
		{Key: "description", Value: doc.Description},
		{Key: "status", Value: doc.Status},
		{Key: "priority", Value: doc.Priority},
		{Key: "deadline", Value: doc.Deadline},
		{Key: "label_ids", Value: doc.LabelIDs},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}
	res, err := s.coll.UpdateOne(ctx, ownedIDFilter(task.UserID, task.ID), update)
	if err != nil {
		return mapError(err, store.ErrTaskNotFound, nil)
	}
	if res.MatchedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, ownedIDFilter(userID, id))
	if err != nil {
		return mapError(err, store.ErrTaskNotFound, nil)
	}
	if res.DeletedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := taskQuery(userID, filter)
	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	cursor, err := s.coll.Find(ctx, query, pageOptions(page, taskSort(filter.Sort)))
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toDomain()
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}
	return tasks, total, nil
}

// RemoveLabel implements store.TaskStore.RemoveLabel with a single
// owner-scoped $pull.
func (s *TaskStore) RemoveLabel(ctx context.Context, userID, labelID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := append(ownerFilter(userID), bson.E{Key: "label_ids", Value: labelID.String()})
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "label_ids", Value: labelID.String()}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	res, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, mapError(err, nil, nil)
	}

	log.Debug("label pulled from tasks",
		slog.String("label_id", labelID.String()),
		slog.Int64("matched", res.MatchedCount),
		slog.Int64("modified", res.ModifiedCount))
	return res.ModifiedCount, nil
}

type labelCountResult struct {
	LabelID string `bson:"_id"`
	Count   int64  `bson:"count"`
}

// CountByLabel implements store.TaskStore.CountByLabel. The first $match
// uses the (user_id, label_ids) index; the unwound array is matched again so
// only the requested labels are grouped.
func (s *TaskStore) CountByLabel(
	ctx context.Context,
	userID uuid.UUID,
	labelIDs []uuid.UUID,
) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(labelIDs))
	if len(labelIDs) == 0 {
		return counts, nil
	}
	for _, id := range labelIDs {
		counts[id] = 0
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	inLabels := bson.D{{Key: "$in", Value: idStrings(labelIDs)}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: append(ownerFilter(userID), bson.E{Key: "label_ids", Value: inLabels})}},
		{{Key: "$unwind", Value: "$label_ids"}},
		{{Key: "$match", Value: bson.D{{Key: "label_ids", Value: inLabels}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$label_ids"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	var results []labelCountResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapError(err, nil, nil)
	}

	for _, r := range results {
		id, err := uuid.Parse(r.LabelID)
		if err != nil {
			return nil, errCorruptDocument(TasksCollection, r.LabelID, err)
		}
		counts[id] = r.Count
	}
	return counts, nil
}

type statsResult struct {
	Total    int64 `bson:"total"`
	Complete int64 `bson:"complete"`
	Overdue  int64 `bson:"overdue"`
}

// Stats implements store.TaskStore.Stats with one aggregation pass.
func (s *TaskStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	isComplete := bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.TaskStatusComplete)}}}
	isOverdue := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.TaskStatusIncomplete)}}},
		bson.D{{Key: "$lt", Value: bson.A{"$deadline", now.UTC()}}},
	}}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: ownerFilter(userID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "complete", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{isComplete, 1, 0}}}}}},
			{Key: "overdue", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{isOverdue, 1, 0}}}}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	var results []statsResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapError(err, nil, nil)
	}

	stats := &store.TaskStats{}
	if len(results) > 0 {
		r := results[0]
		stats.Total = r.Total
		stats.Complete = r.Complete
		stats.Overdue = r.Overdue
		stats.Incomplete = r.Total - r.Complete
	}
	return stats, nil
}
