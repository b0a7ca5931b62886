// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/synapsemed/synapse/internal/api"
	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/mcpserver"
	"github.com/synapsemed/synapse/internal/metrics"
	"github.com/synapsemed/synapse/internal/sse"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts...)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_driver", cfg.Catalog.Driver),
		slog.String("catalog_dir", cfg.Catalog.Dir),
		slog.Bool("catalog_watch", cfg.Catalog.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	lib, err := openLibrary(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer lib.Close()

	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	apiRouter := api.NewRouter(lib.engine(), broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware())
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := lib.repository().Snapshot(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Catalog.Watch && lib.dir != "" {
		g.Go(func() error {
			err := catalog.Watch(gCtx, lib.store, lib.dir, logger, func(next *catalog.Snapshot) {
				changed, err := lib.apply(gCtx, next)
				if err != nil {
					logger.Error("catalog reload failed", slog.String("error", err.Error()))
					return
				}
				names := make([]string, 0, len(changed))
				for _, kind := range changed {
					names = append(names, kind.Collection())
				}
				broker.PublishReload(names...)
			})
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Ends open event streams; Shutdown would otherwise wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher exits together with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the search tools over stdin/stdout. Logs go to stderr so
// they never interleave with protocol frames.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts...)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	lib, err := openLibrary(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer lib.Close()

	srv := mcpserver.New(lib.engine(), app.version)
	logger.Info("MCP server starting", slog.String("version", app.version))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
