package main

import (
	"context"
	"os"
	"time"

	"portfolio/internal/amqp"
	"portfolio/internal/cli"
	"portfolio/internal/config"
	"portfolio/internal/log"
	"portfolio/internal/observability"
	"portfolio/internal/services"
	"portfolio/internal/sheets"
	gsheet "portfolio/internal/sheets/google"
	memsheet "portfolio/internal/sheets/memory"
	"portfolio/internal/worker"
)

func main() {
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)
	logger.Info("Starting portfolio-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	exporter, err := newExporter(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize spreadsheet exporter", log.FieldError, err)
		os.Exit(1)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics", log.FieldError, err)
		os.Exit(1)
	}

	processor := services.NewExportProcessor(repo, exporter,
		services.ExportProcessorConfig{
			PollInterval: cfg.ExportInterval,
			BatchSize:    cfg.ExportBatchSize,
		})

	var consumer *amqp.Client
	if cfg.AMQPURL != "" {
		consumer, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WithComponent(log.ComponentAMQP).Warn("Failed to initialize AMQP client, relying on periodic sweeps",
				log.FieldError, err)
			consumer = nil
		}
	} else {
		logger.Info("AMQP disabled, relying on periodic sweeps")
	}

	metricsSrv := cli.ServeMetrics(logger, cfg.MetricsAddr, metrics.Handler())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := processor.Stop(shutdownCtx); err != nil {
			logger.Error("Export processor stop error", log.FieldError, err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", log.FieldError, err)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
		if err := repo.Close(); err != nil {
			logger.Error("SQLite close error", log.FieldError, err)
		}
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start export processor", log.FieldError, err)
		os.Exit(1)
	}

	if consumer != nil {
		w := worker.NewExportWorker(processor, metrics, logger)
		go func() {
			if err := w.Run(ctx, consumer); err != nil {
				logger.Error("Event consumption stopped", log.FieldError, err)
			}
		}()
	}

	cli.WaitForShutdown(ctx, done)
}

// newExporter returns the Google Sheets client, or an in-process sheet when no
// spreadsheet is configured.
func newExporter(cfg *config.Config, logger *log.Logger) (sheets.ExpenseExporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.WithComponent(log.ComponentSheets).Warn("GOOGLE_SPREADSHEET_ID not set, exporting to an in-memory sheet")
		return memsheet.New(cfg.GoogleSheetName), nil
	}
	if err := cfg.ValidateExport(); err != nil {
		return nil, err
	}
	client, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	logger.WithComponent(log.ComponentSheets).Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
