//go:build integration

// Package testdb provides helpers for tests that run against a real
// Postgres database. Tests using it are compiled only with the integration
// build tag and are skipped when no database URL is configured.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/phrazzld/taskly-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// URLEnv names the environment variable holding the test database URL.
const URLEnv = "TASKLY_TEST_DATABASE_URL"

var migrateOnce sync.Once

// URL returns the configured test database URL, or "" when unset.
func URL() string {
	return os.Getenv(URLEnv)
}

// Open connects to the test database and applies all migrations once per
// test binary. The test is skipped when URLEnv is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skipf("%s not set, skipping database test", URLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:           config.DriverPostgres,
		URL:              url,
		MaxPoolSize:      4,
		OperationTimeout: 5 * time.Second,
	}, log)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, postgres.MigrateUp, log)
	})
	require.NoError(t, migrateErr, "failed to migrate test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can share one database without seeing each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
