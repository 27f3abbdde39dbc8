package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-ledger/internal/app"
	"github.com/tair/inventory-ledger/pkg/database"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/middleware"
	"github.com/tair/inventory-ledger/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// inventory serve: run the HTTP API until SIGINT/SIGTERM.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("db_driver", cfg.Database.Driver).
		Msg("Starting inventory service")

	var tp trace.TracerProvider
	if cfg.TracingEnabled {
		tp, err = tracing.InitTracer(ctx, cfg.ServiceName, cfg.JaegerEndpoint)
		if err != nil {
			return err
		}
	} else {
		tracing.InitNoop()
	}

	rt, err := boot(ctx, cfg)
	if err != nil {
		return err
	}

	mwConfig := middleware.DefaultConfig(cfg.RequestTimeout)
	if rt.redis != nil && cfg.RateLimitPerMinute > 0 {
		mwConfig.RateLimiter = middleware.NewRateLimiter(rt.redis, cfg.RateLimitPerMinute, time.Minute)
	}

	handler := app.NewRouter(rt.app, rt.db, mwConfig, cfg.ServiceName)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Logger.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Logger.Error().Err(shutdownErr).Msg("HTTP server shutdown failed")
	}
	rt.close(shutdownCtx)
	if tp != nil {
		if shutdownErr := tracing.Shutdown(shutdownCtx, tp); shutdownErr != nil {
			logger.Logger.Error().Err(shutdownErr).Msg("Tracer shutdown failed")
		}
	}

	logger.Logger.Info().Msg("Server stopped")
	return err
}

// inventory migrate: create or update the schema and exit.
func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context(), opts, cfg.RequestTimeout)
			defer cancel()

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(context.WithoutCancel(ctx), db)

			if err := database.Migrate(ctx, db, app.Models()...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func commandContext(parent context.Context, opts *rootOptions, fallback time.Duration) (context.Context, context.CancelFunc) {
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = fallback
	}
	return context.WithTimeout(parent, timeout)
}
