// Package mocks provides in-memory and function-field test doubles for the
// store, auth, and service interfaces.
//
// Each mock works out of the box with an in-memory implementation that
// honours the same contracts as the real backends (owner scoping, unique
// label names, ordering, pagination). Set the XxxFn fields to override a
// single method, e.g. to inject a store failure:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.RemoveLabelFn = func(ctx context.Context, userID, labelID uuid.UUID) (int64, error) {
//	    return 0, store.ErrStoreUnavailable
//	}
package mocks
