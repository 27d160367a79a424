package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/register/internal/config"
	"github.com/JonMunkholm/register/internal/core"
	"github.com/JonMunkholm/register/internal/logging"
	"github.com/JonMunkholm/register/internal/publish"
	"github.com/JonMunkholm/register/internal/store"
	"github.com/JonMunkholm/register/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	registry, err := store.OpenConfigured(cfg)
	if err != nil {
		slog.Error("failed to open registry", "error", err)
		os.Exit(1)
	}
	defer registry.Close()

	service, err := core.NewService(registry, core.ServiceConfig{
		MaxFileSize:          cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportMaxWait:        cfg.Import.MaxWait,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Fail fast on an unreadable registry rather than on the first request
	ctx := context.Background()
	current, err := service.CurrentTable(ctx)
	if err != nil {
		slog.Error("failed to load registry", "path", registry.Path(), "error", err)
		os.Exit(1)
	}
	slog.Info("registry loaded",
		"path", registry.Path(),
		"participants", len(current),
		"lock_backend", cfg.Store.LockBackend,
	)

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	if cfg.Publish.Enabled {
		sinks, closeSinks, err := buildSinks(jobCtx, cfg.Publish)
		if err != nil {
			slog.Error("failed to configure report publishing", "error", err)
			os.Exit(1)
		}
		defer closeSinks()
		go publish.NewScheduler(service, cfg.Publish.Interval, sinks...).Run(jobCtx)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight imports finish their single write
		if status := service.ImportStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active, "files", status.Files)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildSinks creates the configured report sinks. The returned func closes
// any database handles.
func buildSinks(ctx context.Context, cfg config.PublishConfig) ([]publish.Sink, func(), error) {
	var sinks []publish.Sink
	closeFn := func() {}

	if cfg.S3Bucket != "" {
		s3Sink, err := publish.NewS3Sink(ctx, publish.S3Config{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
			Prefix: cfg.S3Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s3Sink)
	}

	if cfg.PostgresURL != "" {
		pgSink, err := publish.OpenPostgresSink(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pgSink)
		closeFn = func() {
			if err := pgSink.Close(); err != nil {
				slog.Warn("close postgres sink", "error", err)
			}
		}
	}

	return sinks, closeFn, nil
}
