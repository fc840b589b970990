package mongodb

import (
	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ownerFilter(userID uuid.UUID) bson.D {
	return bson.D{{Key: "user_id", Value: userID.String()}}
}

func ownedIDFilter(userID, id uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "user_id", Value: userID.String()},
	}
}

// taskQuery builds the owner-scoped filter for a task listing. Set filter
// fields are ANDed; label matching relies on MongoDB's array equality
// semantics, so {label_ids: id} matches any task containing id.
func taskQuery(userID uuid.UUID, filter store.TaskFilter) bson.D {
	q := ownerFilter(userID)
	if filter.Status != nil {
		q = append(q, bson.E{Key: "status", Value: string(*filter.Status)})
	}
	if filter.Priority != nil {
		q = append(q, bson.E{Key: "priority", Value: string(*filter.Priority)})
	}
	if filter.LabelID != nil {
		q = append(q, bson.E{Key: "label_ids", Value: filter.LabelID.String()})
	}
	return q
}

// taskSort maps a TaskSort to a sort document. _id breaks ties so paging
// is stable when timestamps collide.
func taskSort(sort store.TaskSort) bson.D {
	switch sort {
	case store.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case store.SortDeadline:
		return bson.D{{Key: "deadline", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
}

func pageOptions(page store.Page, sort bson.D) *options.FindOptions {
	if page.Size == 0 {
		page = store.FirstPage()
	}
	return options.Find().
		SetSort(sort).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
}
