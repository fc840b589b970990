package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", MapError(err, nil))
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to commit transaction: %w", store.ErrTransactionFailed, MapError(err, nil))
	}

	log.Debug("transaction committed successfully")
	return nil
}

// UnitOfWork runs functions against task and label stores bound to one
// transaction.
type UnitOfWork struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a transactional UnitOfWork on db.
func NewUnitOfWork(db *sql.DB, timeout time.Duration, log *slog.Logger) *UnitOfWork {
	if log == nil {
		log = slog.Default()
	}
	return &UnitOfWork{db: db, timeout: timeout, logger: log}
}

// Transactional implements store.UnitOfWork.
func (u *UnitOfWork) Transactional() bool {
	return true
}

// Run implements store.UnitOfWork.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	return RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, store.Stores{
			Tasks:  NewPostgresTaskStore(tx, u.timeout, u.logger),
			Labels: NewPostgresLabelStore(tx, u.timeout, u.logger),
		})
	})
}
