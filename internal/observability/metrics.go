// Package observability owns the Prometheus registry shared by the API
// server and the workers.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Metrics groups the collectors recorded by the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestCounter *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
	rateLimited        prometheus.Counter
	suspiciousRequests prometheus.Counter
	expenseEvents      *prometheus.CounterVec
	exports            *prometheus.CounterVec
	recurringCreated   prometheus.Counter
}

func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
		suspiciousRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_suspicious_requests_total",
			Help:      "Requests flagged by the security detector.",
		}),
		expenseEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expense_events_total",
				Help:      "Expense events handled by the export worker.",
			},
			[]string{"type", "outcome"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sheet_exports_total",
				Help:      "Expense rows appended to the spreadsheet.",
			},
			[]string{"outcome"},
		),
		recurringCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_expenses_created_total",
			Help:      "Expenses materialised from recurring costs.",
		}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestCounter,
		m.httpRequestLatency,
		m.rateLimited,
		m.suspiciousRequests,
		m.expenseEvents,
		m.exports,
		m.recurringCreated,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequestCounter.WithLabelValues(method, route, statusLabel).Inc()
	m.httpRequestLatency.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) RecordSuspicious() {
	if m == nil {
		return
	}
	m.suspiciousRequests.Inc()
}

// RecordExpenseEvent counts a consumed event; outcome is "ok", "retry" or "dropped".
func (m *Metrics) RecordExpenseEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.expenseEvents.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) RecordExport(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.exports.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRecurringCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recurringCreated.Add(float64(n))
}
