package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/amqp"
	"portfolio/internal/log"
	"portfolio/internal/observability"
	"portfolio/internal/ports"
)

type fakeExporter struct {
	calls []int64
	err   error
}

func (f *fakeExporter) ExportOne(_ context.Context, id int64) error {
	f.calls = append(f.calls, id)
	return f.err
}

type fakeSource struct {
	events []amqp.ExpenseEvent
	errs   []error
}

func (s *fakeSource) ConsumeExpenseEvents(ctx context.Context, handler func(context.Context, amqp.ExpenseEvent) error) error {
	for _, ev := range s.events {
		s.errs = append(s.errs, handler(ctx, ev))
	}
	return context.Canceled
}

func newTestWorker(t *testing.T, exp Exporter) (*ExportWorker, *observability.Metrics, *bytes.Buffer) {
	t.Helper()
	m, err := observability.NewMetrics()
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})
	return NewExportWorker(exp, m, logger), m, &buf
}

func exportsWith(t *testing.T, m *observability.Metrics, outcome string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "portfolio_sheet_exports_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestHandleCreatedExports(t *testing.T) {
	exp := &fakeExporter{}
	w, m, _ := newTestWorker(t, exp)

	err := w.HandleEvent(context.Background(), amqp.NewExpenseEvent(amqp.ExpenseCreated, 7))
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, exp.calls)
	assert.Equal(t, 1.0, exportsWith(t, m, "ok"))
}

func TestHandleCreatedMissingExpenseIsAcked(t *testing.T) {
	exp := &fakeExporter{err: fmt.Errorf("get expense 9: %w", ports.ErrNotFound)}
	w, _, buf := newTestWorker(t, exp)

	err := w.HandleEvent(context.Background(), amqp.NewExpenseEvent(amqp.ExpenseCreated, 9))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "dropping event")
}

func TestHandleCreatedFailureRequestsRedelivery(t *testing.T) {
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	w, m, _ := newTestWorker(t, exp)

	err := w.HandleEvent(context.Background(), amqp.NewExpenseEvent(amqp.ExpenseCreated, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1.0, exportsWith(t, m, "error"))
}

func TestHandleDeletedIsAcked(t *testing.T) {
	exp := &fakeExporter{}
	w, _, _ := newTestWorker(t, exp)

	err := w.HandleEvent(context.Background(), amqp.NewExpenseEvent(amqp.ExpenseDeleted, 4))
	assert.NoError(t, err)
	assert.Empty(t, exp.calls)
}

func TestRunTreatsCancellationAsCleanExit(t *testing.T) {
	exp := &fakeExporter{}
	w, m, _ := newTestWorker(t, exp)
	src := &fakeSource{events: []amqp.ExpenseEvent{
		amqp.NewExpenseEvent(amqp.ExpenseCreated, 1),
		amqp.NewExpenseEvent(amqp.ExpenseDeleted, 1),
	}}

	require.NoError(t, w.Run(context.Background(), src))
	assert.Equal(t, []error{nil, nil}, src.errs)
	n, err := testutil.GatherAndCount(m.Registry(), "portfolio_expense_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
