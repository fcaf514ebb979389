package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by backend (table name or keyspace).
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footdata_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	// cacheMisses tracks cache misses by backend.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footdata_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	// cacheErrors tracks cache operation errors by backend and operation.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footdata_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "put"
	)
)
