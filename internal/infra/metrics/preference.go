package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		preferenceRequestsTotal,
		preferenceRequestDuration,
		reconcileOutcomesTotal,
	)
}

var (
	preferenceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_store_requests_total",
			Help: "Calls to the preference service by operation and result.",
		},
		[]string{"op", "result"}, // op: query|create|delete; result: ok|none|http_error|transport_error|decode_error|unknown_status
	)

	preferenceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preference_store_request_duration_seconds",
			Help:    "Round-trip latency of preference service calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	reconcileOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_reconcile_outcomes_total",
			Help: "Daily-delivery reconcile runs by outcome.",
		},
		[]string{"outcome"},
	)
)

func ObservePreferenceCall(op, result string, elapsed time.Duration) {
	preferenceRequestsTotal.WithLabelValues(norm(op), norm(result)).Inc()
	preferenceRequestDuration.WithLabelValues(norm(op)).Observe(elapsed.Seconds())
}

func IncReconcileOutcome(outcome string) {
	reconcileOutcomesTotal.WithLabelValues(norm(outcome)).Inc()
}
