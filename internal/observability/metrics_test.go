package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.RecordHTTPRequest(http.MethodGet, "/api/projects", http.StatusOK, 20*time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/api/projects", http.StatusOK, 30*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/api/projects", http.StatusUnprocessableEntity, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestCounter.WithLabelValues("GET", "/api/projects", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestCounter.WithLabelValues("POST", "/api/projects", "422")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.httpRequestLatency))
}

func TestWorkerCounters(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.RecordExport(nil)
	m.RecordExport(errors.New("quota"))
	m.RecordExport(nil)
	m.RecordExpenseEvent("created", "ok")
	m.RecordRecurringCreated(3)
	m.RecordRecurringCreated(0)
	m.RecordRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.exports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expenseEvents.WithLabelValues("created", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.recurringCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	m.RecordRateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "portfolio_http_rate_limited_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.RecordExport(nil)
		m.RecordRateLimited()
		m.RecordSuspicious()
		m.RecordExpenseEvent("created", "ok")
		m.RecordRecurringCreated(1)
	})
	assert.Nil(t, m.Registry())
}
