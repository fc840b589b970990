package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskly-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// connectionExceptionClass prefixes SQLSTATE codes for lost or refused connections
	connectionExceptionClass = "08"

	// adminShutdownCode is reported while the server is shutting down
	adminShutdownCode = "57P01"
)

// Constraint names from the schema migrations.
const (
	usersEmailConstraint      = "users_email_key"
	labelsOwnerNameConstraint = "labels_user_id_name_key"
)

// duplicateByConstraint maps unique constraints to their entity-specific error.
var duplicateByConstraint = map[string]error{
	usersEmailConstraint:      store.ErrEmailExists,
	labelsOwnerNameConstraint: store.ErrLabelNameExists,
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better debugging information.
// notFound replaces sql.ErrNoRows when non-nil.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	// The caller went away; keep the cause visible to the API layer.
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if IsUnavailable(err) {
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if specific, ok := duplicateByConstraint[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%w: %v", specific, err)
			}
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsUnavailable reports errors caused by the database being unreachable or
// too slow, rather than rejecting the statement.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, connectionExceptionClass) || pgErr.Code == adminShutdownCode
	}
	return false
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns notFound.
// UPDATE and DELETE statements in this package always filter by owner, so
// zero rows means the row is missing or belongs to someone else.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
