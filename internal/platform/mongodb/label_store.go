package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LabelStore implements store.LabelStore on the labels collection. Name
// uniqueness per owner is enforced by the user_id_name_unique index.
type LabelStore struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
}

var _ store.LabelStore = (*LabelStore)(nil)

// NewLabelStore creates a LabelStore.
func NewLabelStore(db *mongo.Database, timeout time.Duration, log *slog.Logger) *LabelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LabelStore{
		coll:    db.Collection(LabelsCollection),
		timeout: timeout,
		logger:  log.With(slog.String("component", "label_store")),
	}
}

// Create implements store.LabelStore.Create.
func (s *LabelStore) Create(ctx context.Context, label *domain.Label) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, newLabelDocument(label)); err != nil {
		return mapError(err, nil, store.ErrLabelNameExists)
	}
	return nil
}

// GetByID implements store.LabelStore.GetByID.
func (s *LabelStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc labelDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, mapError(err, store.ErrLabelNotFound, nil)
	}
	return doc.toDomain()
}

// Update implements store.LabelStore.Update.
func (s *LabelStore) Update(ctx context.Context, label *domain.Label) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: label.Name},
		{Key: "color", Value: label.Color},
		{Key: "updated_at", Value: label.UpdatedAt.UTC()},
	}}}
	res, err := s.coll.UpdateOne(ctx, ownedIDFilter(label.UserID, label.ID), update)
	if err != nil {
		return mapError(err, store.ErrLabelNotFound, store.ErrLabelNameExists)
	}
	if res.MatchedCount == 0 {
		return store.ErrLabelNotFound
	}
	return nil
}

// Delete implements store.LabelStore.Delete.
func (s *LabelStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, ownedIDFilter(userID, id))
	if err != nil {
		return mapError(err, store.ErrLabelNotFound, nil)
	}
	if res.DeletedCount == 0 {
		return store.ErrLabelNotFound
	}
	s.logger.Debug("label document deleted", slog.String("label_id", id.String()))
	return nil
}

// List implements store.LabelStore.List.
func (s *LabelStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Label, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := ownerFilter(userID)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	cursor, err := s.coll.Find(ctx, filter, pageOptions(page, sort))
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}
	// All closes the cursor.
	var docs []labelDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	labels := make([]*domain.Label, 0, len(docs))
	for _, doc := range docs {
		label, err := doc.toDomain()
		if err != nil {
			return nil, 0, err
		}
		labels = append(labels, label)
	}
	return labels, total, nil
}

// CountOwned implements store.LabelStore.CountOwned.
func (s *LabelStore) CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := append(ownerFilter(userID), bson.E{
		Key:   "_id",
		Value: bson.D{{Key: "$in", Value: idStrings(ids)}},
	})
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, mapError(err, nil, nil)
	}
	return n, nil
}
