package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal) }

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "verse_cache_requests_total",
		Help: "Verse cache lookups by result.",
	},
	[]string{"result"}, // hit, miss, error
)

func IncVerseCache(result string) {
	cacheRequestsTotal.WithLabelValues(norm(result)).Inc()
}
