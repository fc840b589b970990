// Package mongodb provides MongoDB implementations of the store interfaces.
//
// Identifiers are stored as canonical UUID strings in _id and user_id so
// documents stay readable in the shell. Every store scopes mutations by
// owner in the query filter itself, and every operation runs under the
// configured per-operation timeout.
//
// MongoDB is used here without multi-document transactions, so the
// UnitOfWork in this package is not transactional and label deletion falls
// back to a best-effort cascade.
package mongodb
