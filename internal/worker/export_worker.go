package worker

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/amqp"
	"portfolio/internal/log"
	"portfolio/internal/observability"
	"portfolio/internal/ports"
)

// Exporter is satisfied by *services.ExportProcessor.
type Exporter interface {
	ExportOne(ctx context.Context, id int64) error
}

// EventSource is satisfied by *amqp.Client.
type EventSource interface {
	ConsumeExpenseEvents(ctx context.Context, handler func(context.Context, amqp.ExpenseEvent) error) error
}

// ExportWorker turns expense events into spreadsheet rows.
type ExportWorker struct {
	exporter Exporter
	metrics  *observability.Metrics
	logger   *log.Logger
}

// NewExportWorker returns a worker; metrics may be nil.
func NewExportWorker(exporter Exporter, metrics *observability.Metrics, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		exporter: exporter,
		metrics:  metrics,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run consumes events until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, source EventSource) error {
	w.logger.InfoContext(ctx, "Export worker consuming expense events")
	err := source.ConsumeExpenseEvents(ctx, w.HandleEvent)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleEvent processes one event. A returned error asks the broker to
// redeliver; events for expenses that no longer exist are acknowledged.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev amqp.ExpenseEvent) error {
	logger := w.logger.With(log.FieldEventID, ev.EventID, log.FieldExpenseID, ev.ExpenseID)

	switch ev.Type {
	case amqp.ExpenseCreated:
		err := w.exporter.ExportOne(ctx, ev.ExpenseID)
		switch {
		case err == nil:
			w.metrics.RecordExport(nil)
			w.metrics.RecordExpenseEvent(string(ev.Type), "ok")
			logger.DebugContext(ctx, "Expense event handled", log.FieldEventType, ev.Type)
			return nil
		case errors.Is(err, ports.ErrNotFound):
			w.metrics.RecordExpenseEvent(string(ev.Type), "dropped")
			logger.WarnContext(ctx, "Expense no longer exists, dropping event")
			return nil
		default:
			w.metrics.RecordExport(err)
			w.metrics.RecordExpenseEvent(string(ev.Type), "retry")
			log.NewStructuredLogger(logger).LogError(ctx, "Failed to export expense", err, log.OpExport, nil)
			return fmt.Errorf("export expense %d: %w", ev.ExpenseID, err)
		}

	case amqp.ExpenseDeleted:
		// Exported rows are an append-only ledger; deletions stay in the store.
		w.metrics.RecordExpenseEvent(string(ev.Type), "ok")
		logger.InfoContext(ctx, "Expense deleted, spreadsheet row left in place")
		return nil

	default:
		w.metrics.RecordExpenseEvent(string(ev.Type), "dropped")
		logger.WarnContext(ctx, "Unknown expense event type", log.FieldEventType, ev.Type)
		return nil
	}
}
