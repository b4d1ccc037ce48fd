package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_search_requests_total",
			Help: "Total number of search requests by entity kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "directory_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	DetailRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_detail_requests_total",
			Help: "Total number of detail lookups by entity kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SelectionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_mutations_total",
			Help: "Total number of persisted selection set mutations",
		},
		[]string{"set", "op"},
	)

	SelectionEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_evictions_total",
			Help: "Items evicted from a full selection set",
		},
		[]string{"set"},
	)
)

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)
