// Package metrics exposes the relay's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the relay-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "credit_relay",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credit_relay",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credit_relay",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	chainWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credit_relay",
			Subsystem: "chain",
			Name:      "writes_total",
			Help:      "Total number of state-changing contract invocations.",
		},
		[]string{"method", "outcome"},
	)

	chainWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credit_relay",
			Subsystem: "chain",
			Name:      "write_duration_seconds",
			Help:      "Duration of write invocations including confirmation wait.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~3.5m
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		chainWrites,
		chainWriteDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncInFlight tracks the start of one in-flight request.
func IncInFlight() { httpInFlight.Inc() }

// DecInFlight tracks the end of one in-flight request.
func DecInFlight() { httpInFlight.Dec() }

// RecordChainWrite records one state-changing contract invocation.
func RecordChainWrite(method string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	chainWrites.WithLabelValues(method, outcome).Inc()
	chainWriteDuration.WithLabelValues(method).Observe(duration.Seconds())
}
