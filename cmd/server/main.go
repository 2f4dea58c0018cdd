package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PrjctQ/qcore/internal/router"
	"github.com/PrjctQ/qcore/internal/user"
	"github.com/PrjctQ/qcore/pkg/bootstrap"
	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/PrjctQ/qcore/pkg/database"
	"github.com/PrjctQ/qcore/pkg/logger"
)

func main() {
	env := parseFlags()

	logger.Setup(env)
	slog.Info("server initializing", "env", env)

	if err := run(env); err != nil {
		slog.Error("server initialization failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped", "env", env)
}

// parseFlags parses command line arguments
func parseFlags() string {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	flag.Parse()
	return *env
}

// run contains the main application logic
func run(env string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.Info("configuration loaded")

	// Connect to database before accepting traffic; failure aborts startup.
	db, err := database.NewPostgres(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("database shutdown failed", "error", err)
		}
	}()

	if err := database.Migrate(db.DB, cfg, &user.User{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	srv, err := setupServer(cfg, db)
	if err != nil {
		return err
	}

	return startWithGracefulShutdown(ctx, srv, cfg.Server.GracefulTimeout)
}

// setupServer initializes and configures the HTTP server
func setupServer(cfg *config.Config, db *database.DB) (*bootstrap.Server, error) {
	boot := bootstrap.NewBootstrap(cfg)
	engine := boot.SetupEngine()

	if err := router.Setup(engine, cfg, db); err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	slog.Info("server configured", "env", cfg.App.Env)

	return bootstrap.New(cfg, engine), nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, gracefulTimeout time.Duration) error {
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		// Server failed to start (port retries exhausted) or stopped
		// unexpectedly
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, gracefulTimeout)
		defer cancel()

		// Stop accepting new connections and drain in-flight requests; the
		// deferred database close in run completes the teardown.
		slog.Info("shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced server shutdown: %w", err)
		}
		return nil
	}
}
