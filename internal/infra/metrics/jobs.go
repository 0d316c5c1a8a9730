package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(audioFilesSweptTotal, updatesDroppedTotal) }

var (
	audioFilesSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_files_swept_total",
			Help: "Stale narration files removed by the audio janitor.",
		},
	)

	updatesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_updates_dropped_total",
			Help: "Updates that could not be queued on the worker pool.",
		},
	)
)

func AddAudioFilesSwept(n int) {
	if n > 0 {
		audioFilesSweptTotal.Add(float64(n))
	}
}

func IncUpdateDropped() {
	updatesDroppedTotal.Inc()
}
