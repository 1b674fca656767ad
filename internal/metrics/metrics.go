// Package metrics defines the Prometheus collectors for the recommender.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts engine operations by name and outcome.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_requests_total",
			Help: "Engine operations served, by operation and result",
		},
		[]string{"operation", "result"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reco_request_duration_seconds",
			Help:    "Latency of engine operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"operation"},
	)

	// RecommendSource counts which cascade stage answered a recommendation.
	RecommendSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_recommend_source_total",
			Help: "Recommendations served, by cascade stage",
		},
		[]string{"source"},
	)

	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reco_rebuild_duration_seconds",
			Help:    "Duration of full catalog rebuilds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	RebuildFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_rebuild_failures_total",
			Help: "Rebuilds that kept the previous store",
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reco_catalog_items",
			Help: "Items in the published store",
		},
	)

	CatalogFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_catalog_fetch_failures_total",
			Help: "Catalog fetch failures, by source",
		},
		[]string{"source"},
	)

	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_embedding_cache_hits_total",
			Help: "Item texts served from the embedding cache during rebuild",
		},
	)

	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_embedding_cache_misses_total",
			Help: "Item texts sent to the embedding model during rebuild",
		},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_search_cache_hits_total",
			Help: "Text searches answered from the search cache",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_search_cache_misses_total",
			Help: "Text searches that had to embed the query",
		},
	)

	EventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_events_appended_total",
			Help: "Interaction events recorded, by kind",
		},
		[]string{"kind"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reco_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
