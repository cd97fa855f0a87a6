package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/secretdraw/internal/admin"
	"github.com/playperu/secretdraw/internal/config"
	"github.com/playperu/secretdraw/internal/handler/health"
	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Store ---
	backend, err := cfg.OpenBackend(ctx)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer backend.Close()
	logger.Info("store ready", "backend", backend.Name)

	games := repository.New(backend.Client, logger)
	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, games); err != nil {
			return fmt.Errorf("seeding demo game: %w", err)
		}
	}

	gate, err := admin.NewGate(cfg.AdminKey)
	if err != nil {
		return err
	}
	if cfg.AdminKey == admin.DefaultKey {
		logger.Warn("using the default admin key; set ADMIN_KEY")
	}

	checks := map[string]health.Checker{
		"store": health.CheckerFunc(func(ctx context.Context) error {
			_, err := backend.Client.FetchCollection(ctx)
			return err
		}),
	}
	if backend.Name == config.BackendSQLite || backend.Name == config.BackendRedis {
		checks[backend.Name] = backend.Client
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:         games,
		Joiner:        join.New(games, logger, cfg.JoinOptions()),
		Gate:          gate,
		Broker:        server.NewBroker(),
		Checks:        checks,
		PublicBaseURL: cfg.PublicBaseURL,
		SPADir:        cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
