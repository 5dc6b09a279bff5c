package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"portfolio/internal/backend"
	"portfolio/internal/cli"
	apphttp "portfolio/internal/http"
	"portfolio/internal/log"
	"portfolio/internal/observability"
	"portfolio/internal/services"
)

func main() {
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics", log.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Store:              result.Store,
		Expenses:           result.Expenses,
		Analytics:          services.NewAnalyticsService(result.Store, cfg.Location()),
		Metrics:            metrics,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	go func() {
		logger.Info("Starting server",
			"addr", srv.Addr,
			"backend", cfg.DataBackend,
			"export_events", result.Publishing,
			"timezone", cfg.Location().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
