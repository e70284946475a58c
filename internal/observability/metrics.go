package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fashion_dashboard"

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	reportDuration  prometheus.Histogram
	reportRecords   prometheus.Histogram
	insightRequests *prometheus.CounterVec
	insightDuration prometheus.Histogram
	datasetRecords  prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		reportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent filtering the dataset and computing a report.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		reportRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "report_filtered_records",
			Help:      "Number of records in the filtered view of a report.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		insightRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "insight_requests_total",
			Help:      "Insight completions by status and error kind.",
		}, []string{"status", "error_kind"}),
		insightDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "insight_duration_seconds",
			Help:      "Latency of insight completion calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		datasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_records",
			Help:      "Records in the loaded dataset.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveReport(records int, d time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.Observe(d.Seconds())
	m.reportRecords.Observe(float64(records))
}

func (m *Metrics) ObserveInsight(status, errorKind string, d time.Duration) {
	if m == nil {
		return
	}
	m.insightRequests.WithLabelValues(status, errorKind).Inc()
	m.insightDuration.Observe(d.Seconds())
}

func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}
