// Package app wires configuration, storage, services and transport
// into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hairlooks/salonbridge/internal/adapter/klaviyo"
	"github.com/hairlooks/salonbridge/internal/adapter/postgres"
	"github.com/hairlooks/salonbridge/internal/adapter/postgres/buffer"
	"github.com/hairlooks/salonbridge/internal/config"
	"github.com/hairlooks/salonbridge/internal/scheduler"
	"github.com/hairlooks/salonbridge/internal/service/ingest"
	syncsvc "github.com/hairlooks/salonbridge/internal/service/sync"
	"github.com/hairlooks/salonbridge/internal/transport/middleware"
	"github.com/hairlooks/salonbridge/internal/transport/rest"
)

// Run is the application entry point. It blocks until ctx is cancelled,
// then shuts the HTTP server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting salonbridge",
		slog.String("version", BuildVersion()),
		slog.String("mode", cfg.Klaviyo.Mode),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(cfg.Database.DSN); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	bufferRepo := buffer.New(pool)
	klaviyoClient := klaviyo.NewClient(cfg.Klaviyo, logger)

	ingestSvc := ingest.New(bufferRepo, cfg.Webhook, logger)
	syncService := syncsvc.New(bufferRepo, klaviyoClient, logger)

	sched := scheduler.New(syncService, cfg.Sync.Hour, logger)
	go sched.Run(ctx)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Webhook: rest.NewWebhookHandler(ingestSvc, logger),
		Admin:   rest.NewAdminHandler(syncService, logger),
		Health:  rest.NewHealthHandler(pool, klaviyoClient, bufferRepo, BuildVersion()),
	}, cfg.Server, cfg.CORS, limiter, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
