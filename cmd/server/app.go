package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskly-api/internal/api/middleware"
	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	stores storeSet

	jwtService   auth.JWTService
	guard        service.Guard
	userService  service.UserService
	taskService  service.TaskService
	labelService service.LabelService

	redis   *redis.Client
	limiter *middleware.RateLimiter
}

// newApplication wires services over stores. It connects to Redis when rate
// limiting is enabled.
func newApplication(cfg *config.Config, log *slog.Logger, stores storeSet) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		stores: stores,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.guard, err = service.NewGuard(app.jwtService)
	if err != nil {
		return nil, fmt.Errorf("failed to create guard: %w", err)
	}

	app.userService, err = service.NewUserService(
		stores.users,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(stores.tasks, stores.labels, app.guard, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.labelService, err = service.NewLabelService(stores.labels, stores.tasks, stores.uow, app.guard, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create label service: %w", err)
	}

	if cfg.RateLimit.Enabled {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		app.redis = redis.NewClient(opts)
		app.limiter = middleware.NewRateLimiter(app.redis, log)
		log.Info("rate limiting enabled",
			"auth_per_minute", cfg.RateLimit.AuthPerMinute,
			"api_per_minute", cfg.RateLimit.APIPerMinute)
	}

	log.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources owned by the application. The database pool
// is owned and closed by the backend.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
