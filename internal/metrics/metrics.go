package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metadata_cache_hits_total",
		Help: "Number of metadata cache lookups served from the cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metadata_cache_misses_total",
		Help: "Number of metadata cache lookups that missed or hit an expired entry.",
	})

	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metadata_cache_evictions_total",
		Help: "Number of cache entries evicted to make room or dropped as stale.",
	})

	TrackMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "track_matches_total",
		Help: "Number of single-track match operations by outcome.",
	}, []string{"outcome"})

	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_items_total",
		Help: "Number of batch items processed by operation and outcome.",
	}, []string{"operation", "outcome"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Time spent building one unified metadata record.",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeFailed    = "failed"
	OutcomeEnriched  = "enriched"
)
