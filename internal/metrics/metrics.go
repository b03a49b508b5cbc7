// Package metrics exposes the client core's prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ithoria_requests_total",
		Help: "Correlated gateway requests by type and outcome.",
	}, []string{"type", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ithoria_request_duration_seconds",
		Help:    "Time from request publish to response, timeout, or cancellation.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"type"})

	zoneOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ithoria_zone_operations_total",
		Help: "Zone load and unload operations by outcome.",
	}, []string{"op", "outcome"})

	zoneOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ithoria_zone_operation_duration_seconds",
		Help:    "Duration of zone content load and unload operations.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"op"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ithoria_zone_transitions_total",
		Help: "World entry transitions by outcome.",
	}, []string{"outcome"})
)

func ObserveRequest(reqType, outcome string, d time.Duration) {
	requestsTotal.WithLabelValues(reqType, outcome).Inc()
	requestDuration.WithLabelValues(reqType).Observe(d.Seconds())
}

func ObserveZoneOp(op, outcome string, d time.Duration) {
	zoneOpsTotal.WithLabelValues(op, outcome).Inc()
	zoneOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

func CountTransition(outcome string) {
	transitionsTotal.WithLabelValues(outcome).Inc()
}
