// Package service holds the task tracker's use cases. Services receive the
// caller's identity from the HTTP layer, fetch resources through the store
// interfaces, and check every fetched resource with the ownership Guard
// before reading or changing it. A resource owned by someone else is
// reported exactly like a missing one.
package service
