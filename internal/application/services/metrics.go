package services

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_result_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit, miss, stale, error)",
		},
		[]string{"outcome"},
	)

	visitsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_visits_recorded_total",
			Help: "Top-level navigations appended to the visit log",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups)
	prometheus.MustRegister(visitsRecorded)
}
