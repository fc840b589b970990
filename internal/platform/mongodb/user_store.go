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

// UserStore implements store.UserStore on the users collection.
type UserStore struct {
	db      *mongo.Database
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. A zero timeout disables the
// per-operation deadline.
func NewUserStore(db *mongo.Database, timeout time.Duration, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		db:      db,
		coll:    db.Collection(UsersCollection),
		timeout: timeout,
		logger:  log.With(slog.String("component", "user_store")),
	}
}

// Create implements store.UserStore.Create.
// Returns store.ErrEmailExists if the email is already registered.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		mapped := mapError(err, nil, store.ErrEmailExists)
		log.Debug("failed to insert user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", mapped.Error()))
		return mapped
	}
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

// GetByEmail implements store.UserStore.GetByEmail. Emails are stored
// normalized, so the lookup is an exact match.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err, store.ErrUserNotFound, nil)
	}
	return doc.toDomain()
}

// Update implements store.UserStore.Update. Email is immutable and is not
// written.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "display_name", Value: user.DisplayName},
		{Key: "hashed_password", Value: user.HashedPassword},
		{Key: "updated_at", Value: user.UpdatedAt.UTC()},
	}}}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: user.ID.String()}}, update)
	if err != nil {
		return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// Ping implements store.UserStore.Ping.
func (s *UserStore) Ping(ctx context.Context) error {
	return ping(ctx, s.db, s.timeout)
}
