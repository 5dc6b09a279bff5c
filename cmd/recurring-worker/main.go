package main

import (
	"context"
	"os"
	"time"

	"portfolio/internal/amqp"
	"portfolio/internal/cli"
	"portfolio/internal/log"
	"portfolio/internal/observability"
	"portfolio/internal/services"
)

func main() {
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentRecurring)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentRecurring)
	logger.Info("Starting recurring-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// Expenses created here are announced like any other so that the export
	// worker picks them up.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WithComponent(log.ComponentAMQP).Warn("Failed to initialize AMQP client, continuing without export events",
				log.FieldError, err)
		} else {
			publisher = client
		}
	}
	expenseService := services.NewExpenseService(repo, publisher)
	processor := services.NewRecurringProcessor(repo, expenseService)

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics", log.FieldError, err)
		os.Exit(1)
	}

	loc := cfg.Location()
	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath,
		"timezone", loc.String())

	metricsSrv := cli.ServeMetrics(logger, cfg.MetricsAddr, metrics.Handler())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", log.FieldError, err)
		}
		if err := expenseService.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
		if err := repo.Close(); err != nil {
			logger.Error("SQLite close error", log.FieldError, err)
		}
	})

	go cli.RunEvery(ctx, cfg.RecurringInterval, func(ctx context.Context, now time.Time) {
		count, err := processor.ProcessDue(ctx, now.In(loc))
		if err != nil {
			logger.Error("Recurring processing failed", log.FieldError, err)
			return
		}
		metrics.RecordRecurringCreated(count)
		logger.Info("Recurring processing complete",
			"expenses_created", count,
			"next_check", now.Add(cfg.RecurringInterval).In(loc).Format(time.TimeOnly))
	})

	cli.WaitForShutdown(ctx, done)
}
