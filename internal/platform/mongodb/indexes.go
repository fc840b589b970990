package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names referenced by error mapping and operators.
const (
	UserEmailIndex      = "email_unique"
	LabelOwnerNameIndex = "user_id_name_unique"
)

func indexSpecs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName(UserEmailIndex).SetUnique(true),
			},
		},
		LabelsCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetName(LabelOwnerNameIndex).SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("user_id_created_at"),
			},
		},
		TasksCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("user_id_created_at"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("user_id_status"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "priority", Value: 1}},
				Options: options.Index().SetName("user_id_priority"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "label_ids", Value: 1}},
				Options: options.Index().SetName("user_id_label_ids"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "deadline", Value: 1}},
				Options: options.Index().SetName("user_id_deadline"),
			},
		},
	}
}

// EnsureIndexes creates the indexes every store relies on. Existing indexes
// with matching definitions are left alone, so it is safe to run on every
// deploy.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	for _, collection := range []string{UsersCollection, LabelsCollection, TasksCollection} {
		models := indexSpecs()[collection]
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Error("failed to create indexes",
				slog.String("collection", collection),
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to create indexes on %s: %w", collection, mapError(err, nil, nil))
		}
		log.Info("indexes ensured",
			slog.String("collection", collection),
			slog.Any("indexes", names))
	}
	return nil
}
