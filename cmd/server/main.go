// Package main implements the entry point for the Taskly API server, which
// serves users' tasks and labels over HTTP backed by MongoDB or PostgreSQL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskly-api/internal/config"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	flag "github.com/spf13/pflag"
)

type options struct {
	configFile    string
	migrate       string
	ensureIndexes bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.migrate, "migrate", "", "run postgres migrations (up, down, status) and exit")
	fs.BoolVar(&opts.ensureIndexes, "ensure-indexes", false, "create mongo indexes and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.migrate {
	case "", "up", "down", "status":
	default:
		return options{}, fmt.Errorf("invalid --migrate value %q: must be up, down, or status", opts.migrate)
	}
	if opts.migrate != "" && opts.ensureIndexes {
		return options{}, fmt.Errorf("--migrate and --ensure-indexes are mutually exclusive")
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer backend.close(context.Background())

	switch {
	case opts.migrate != "":
		return backend.migrate(ctx, opts.migrate)
	case opts.ensureIndexes:
		return backend.ensureIndexes(ctx)
	}

	// Mongo indexes are (re)created at startup; the postgres schema is
	// managed with --migrate.
	if err := backend.prepare(ctx); err != nil {
		return err
	}

	app, err := newApplication(cfg, log, backend.stores)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}
