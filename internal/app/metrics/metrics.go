package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "calcserver",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcserver",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calcserver",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcserver",
			Subsystem: "calc",
			Name:      "operations_total",
			Help:      "Total number of calculator operations.",
		},
		[]string{"operation", "status"},
	)

	historySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "calcserver",
			Subsystem: "history",
			Name:      "records",
			Help:      "Number of calculation records currently stored.",
		},
	)

	retentionRemovals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "calcserver",
			Subsystem: "history",
			Name:      "retention_removed_total",
			Help:      "Total records removed by the retention sweeper.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		calculations,
		historySize,
		retentionRemovals,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// IncrementInFlight bumps the in-flight request gauge.
func IncrementInFlight() { httpInFlight.Inc() }

// DecrementInFlight drops the in-flight request gauge.
func DecrementInFlight() { httpInFlight.Dec() }

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCalculation records one calculator operation outcome.
func RecordCalculation(operation, status string) {
	calculations.WithLabelValues(operation, status).Inc()
}

// SetHistorySize publishes the current history record count.
func SetHistorySize(n int) {
	historySize.Set(float64(n))
}

// RecordRetentionRemovals counts records removed by the sweeper.
func RecordRetentionRemovals(n int) {
	if n > 0 {
		retentionRemovals.Add(float64(n))
	}
}
