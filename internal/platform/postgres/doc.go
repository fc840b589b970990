// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// Queries run through database/sql with the pgx driver. Task label sets are
// stored in a uuid[] column, which lets the label cascade run as a single
// array_remove UPDATE inside the same transaction as the label DELETE.
package postgres
