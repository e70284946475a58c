package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP("/api/report", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	m.ObserveHTTP("/api/report", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	m.ObserveInsight("failed", "auth", time.Second)
	m.ObserveReport(42, time.Millisecond)
	m.SetDatasetRecords(1200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/report", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightRequests.WithLabelValues("failed", "auth")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.datasetRecords))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.SetDatasetRecords(3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "fashion_dashboard_dataset_records 3"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("/", http.MethodGet, http.StatusOK, time.Millisecond)
		m.ObserveReport(1, time.Millisecond)
		m.ObserveInsight("ok", "", time.Millisecond)
		m.SetDatasetRecords(1)
	})
	assert.Nil(t, m.Registry())
}
