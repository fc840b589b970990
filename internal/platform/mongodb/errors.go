package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/taskly-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// mapError translates driver errors into store errors. notFound and
// duplicate are the entity-specific errors to use for missing documents
// and unique index violations; nil falls back to the generic class.
func mapError(err, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		if notFound == nil {
			notFound = store.ErrNotFound
		}
		return notFound
	case mongo.IsDuplicateKeyError(err):
		if duplicate == nil {
			duplicate = store.ErrDuplicate
		}
		return fmt.Errorf("%w: %v", duplicate, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	return err
}

// isUnavailable reports errors that mean the deployment could not serve the
// request in time, as opposed to rejecting it.
func isUnavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err)
}

// errCorruptDocument reports a stored document that no longer decodes into
// its domain type.
func errCorruptDocument(collection, id string, err error) error {
	return store.NewStoreError(collection, "decode", "corrupt document "+id,
		fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
}
