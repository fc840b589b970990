package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/phrazzld/taskly-api/internal/redact"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection  = "users"
	TasksCollection  = "tasks"
	LabelsCollection = "labels"
)

// Client owns the driver connection pool and the application database.
type Client struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	logger  *slog.Logger
}

// Connect opens a pooled connection to cfg.URL and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "mongodb"))

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetAppName("taskly-api")
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxPoolSize))
	}
	if cfg.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	}
	if cfg.OperationTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.OperationTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error("failed to create mongodb client", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	c := &Client{
		client:  client,
		db:      client.Database(cfg.Name),
		timeout: cfg.OperationTimeout,
		logger:  log,
	}

	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("mongodb ping failed", slog.String("error", redact.Error(err)))
		return nil, err
	}

	log.Info("connected to mongodb",
		slog.String("database", cfg.Name),
		slog.Int("max_pool_size", cfg.MaxPoolSize))
	return c, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// OperationTimeout is the deadline applied to each store operation.
func (c *Client) OperationTimeout() time.Duration {
	return c.timeout
}

// Ping checks that the deployment is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return ping(ctx, c.db, c.timeout)
}

// Close disconnects the pool.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

func ping(ctx context.Context, db *mongo.Database, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return mapError(err, nil, nil)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
