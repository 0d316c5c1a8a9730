package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(contentRequestsTotal, contentRequestDuration) }

var (
	contentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_requests_total",
			Help: "Calls to the verse content service by kind and result.",
		},
		[]string{"kind", "result"}, // kind: verse|audio
	)

	contentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_request_duration_seconds",
			Help:    "Latency of verse content service calls.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 8, 15},
		},
		[]string{"kind"},
	)
)

func ObserveContentCall(kind string, success bool, elapsed time.Duration) {
	result := "ok"
	if !success {
		result = "error"
	}
	contentRequestsTotal.WithLabelValues(norm(kind), result).Inc()
	contentRequestDuration.WithLabelValues(norm(kind)).Observe(elapsed.Seconds())
}
