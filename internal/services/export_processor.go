package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio/internal/core"
	"portfolio/internal/sheets"
)

// ExportStore is the slice of the store the export processor needs.
type ExportStore interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	PendingExports(ctx context.Context, limit int) ([]core.Expense, error)
	MarkExported(ctx context.Context, id int64) error
}

type ExportProcessorConfig struct {
	// PollInterval is how often pending expenses are swept (default: 1m).
	PollInterval time.Duration
	// BatchSize caps the expenses exported per sweep (default: 20).
	BatchSize int
}

func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		PollInterval: time.Minute,
		BatchSize:    20,
	}
}

// ExportProcessor copies expenses to the spreadsheet. It exports single
// expenses on demand and periodically sweeps the ones still pending, which
// covers events lost while the broker was unavailable.
type ExportProcessor struct {
	storage  ExportStore
	exporter sheets.ExpenseExporter
	config   ExportProcessorConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewExportProcessor(storage ExportStore, exporter sheets.ExpenseExporter, config ExportProcessorConfig) *ExportProcessor {
	def := DefaultExportProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	return &ExportProcessor{
		storage:  storage,
		exporter: exporter,
		config:   config,
	}
}

// ExportOne loads the expense and appends it to the spreadsheet.
func (p *ExportProcessor) ExportOne(ctx context.Context, id int64) error {
	e, err := p.storage.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense %d: %w", id, err)
	}
	return p.export(ctx, e)
}

func (p *ExportProcessor) export(ctx context.Context, e core.Expense) error {
	ref, err := p.exporter.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}
	if err := p.storage.MarkExported(ctx, e.ID); err != nil {
		// Next sweep will append the row a second time.
		slog.WarnContext(ctx, "Failed to mark expense as exported",
			"expense_id", e.ID, "error", err)
	}
	slog.InfoContext(ctx, "Exported expense to Google Sheets",
		"expense_id", e.ID,
		"sheets_ref", ref)
	return nil
}

// ProcessPending exports one batch of pending expenses and returns how many
// were written.
func (p *ExportProcessor) ProcessPending(ctx context.Context) (int, error) {
	pending, err := p.storage.PendingExports(ctx, p.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	slog.DebugContext(ctx, "Processing export batch", "count", len(pending))

	var errs []error
	done := 0
	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if err := p.export(ctx, e); err != nil {
			slog.WarnContext(ctx, "Export failed, will retry on next sweep",
				"expense_id", e.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}

// Start begins the sweep loop. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.New("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Export processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Export processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}
}

func (p *ExportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ExportProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.sweep(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *ExportProcessor) sweep(ctx context.Context) {
	if _, err := p.ProcessPending(ctx); err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "Export sweep incomplete", "error", err)
	}
}
