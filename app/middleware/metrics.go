package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Workflow transitions partitioned by wire action and outcome
	workflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cost_update_transitions_total",
			Help: "Workflow transitions attempted, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// Finalize attempts blocked by the completeness gate
	finalizeGateBlockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cost_update_finalize_gate_blocked_total",
			Help: "Finalize attempts rejected because a line item was incomplete",
		},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveTransition records a workflow transition attempt. Outcome is one of
// "applied", "rejected", "failed".
func ObserveTransition(action, outcome string) {
	workflowTransitionsTotal.With(prometheus.Labels{"action": action, "outcome": outcome}).Inc()
}

// ObserveFinalizeGateBlocked counts a finalize attempt stopped by the
// completeness gate.
func ObserveFinalizeGateBlocked() {
	finalizeGateBlockedTotal.Inc()
}
