package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/phrazzld/taskly-api/internal/platform/mongodb"
	"github.com/phrazzld/taskly-api/internal/platform/postgres"
	"github.com/phrazzld/taskly-api/internal/store"
)

// storeSet is everything the services need from a storage backend.
type storeSet struct {
	users  store.UserStore
	tasks  store.TaskStore
	labels store.LabelStore
	uow    store.UnitOfWork
}

// backend owns the connection pool of the configured driver.
type backend struct {
	driver string
	stores storeSet
	mongo  *mongodb.Client
	sqlDB  *sql.DB
	logger *slog.Logger
}

// openBackend connects to the configured database and builds its stores.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*backend, error) {
	b := &backend{driver: cfg.Driver, logger: log}

	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		db := client.Database()
		tasks := mongodb.NewTaskStore(db, cfg.OperationTimeout, log)
		labels := mongodb.NewLabelStore(db, cfg.OperationTimeout, log)
		b.mongo = client
		b.stores = storeSet{
			users:  mongodb.NewUserStore(db, cfg.OperationTimeout, log),
			tasks:  tasks,
			labels: labels,
			uow:    mongodb.NewUnitOfWork(tasks, labels),
		}

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		b.sqlDB = db
		b.stores = storeSet{
			users:  postgres.NewPostgresUserStore(db, cfg.OperationTimeout, log),
			tasks:  postgres.NewPostgresTaskStore(db, cfg.OperationTimeout, log),
			labels: postgres.NewPostgresLabelStore(db, cfg.OperationTimeout, log),
			uow:    postgres.NewUnitOfWork(db, cfg.OperationTimeout, log),
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	log.Info("database connection established", "driver", cfg.Driver)
	return b, nil
}

// prepare readies the schema for serving. Mongo indexes are created here;
// postgres relies on migrations having been applied.
func (b *backend) prepare(ctx context.Context) error {
	if b.mongo != nil {
		return b.ensureIndexes(ctx)
	}
	return nil
}

func (b *backend) migrate(ctx context.Context, command string) error {
	if b.sqlDB == nil {
		return fmt.Errorf("--migrate requires the postgres driver, configured driver is %q", b.driver)
	}
	return postgres.Migrate(ctx, b.sqlDB, command, b.logger)
}

func (b *backend) ensureIndexes(ctx context.Context) error {
	if b.mongo == nil {
		return fmt.Errorf("--ensure-indexes requires the mongo driver, configured driver is %q", b.driver)
	}
	return mongodb.EnsureIndexes(ctx, b.mongo.Database(), b.logger)
}

func (b *backend) close(ctx context.Context) {
	if b.mongo != nil {
		if err := b.mongo.Close(ctx); err != nil {
			b.logger.Error("error closing mongodb client", "error", err)
		}
	}
	if b.sqlDB != nil {
		if err := b.sqlDB.Close(); err != nil {
			b.logger.Error("error closing database connection", "error", err)
		}
	}
}
