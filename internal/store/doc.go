// Package store defines the persistence interfaces for users, tasks, and
// labels together with the backend-neutral query model (filters, sorting,
// and pagination) that each backend translates into its own query language.
package store
