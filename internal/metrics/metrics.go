// Package metrics exposes Prometheus collectors for the scraper API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnsupported = "unsupported"
)

var (
	httpRequestsTotal           *prometheus.CounterVec
	httpRequestDurationSeconds  *prometheus.HistogramVec
	dispatchTotal               *prometheus.CounterVec
	dispatchDurationSeconds     *prometheus.HistogramVec
	upstreamRequestsTotal       *prometheus.CounterVec
	upstreamThrottleDelaySecond prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)

		dispatchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gplay_dispatch_total",
				Help: "Total number of dispatched operations, labeled by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		)

		dispatchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gplay_dispatch_duration_seconds",
				Help:    "Histogram of operation latencies, labeled by operation.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		)

		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gplay_upstream_requests_total",
				Help: "Total number of requests sent to Google Play, labeled by kind and status.",
			},
			[]string{"kind", "status"},
		)

		upstreamThrottleDelaySecond = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gplay_upstream_throttle_delay_seconds",
				Help:    "Histogram of time spent waiting on the upstream throttle.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDispatch records one dispatched operation.
// Unsupported names are folded into a single label to keep cardinality bounded.
func ObserveDispatch(operation, outcome string, duration time.Duration) {
	if outcome == OutcomeUnsupported {
		operation = "unsupported"
	}
	dispatchTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeUnsupported {
		dispatchDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// ObserveUpstream records one upstream request. Status 0 means the request
// never produced a response.
func ObserveUpstream(kind string, status int) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequestsTotal.WithLabelValues(kind, label).Inc()
}

// ObserveThrottleDelay records time spent waiting for an upstream token.
func ObserveThrottleDelay(duration time.Duration) {
	upstreamThrottleDelaySecond.Observe(duration.Seconds())
}
