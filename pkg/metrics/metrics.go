// Package metrics documents the Prometheus metrics exported by the footdata
// packages. Metrics are defined in their owning packages via promauto to
// keep modularity and avoid circular dependencies; this package is the
// central reference.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by footdata.
// All metrics register automatically via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request metrics (pkg/client):
//   - footdata_requests_total{endpoint, status} (Counter): Provider requests by endpoint and HTTP status
//   - footdata_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - footdata_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry metrics (pkg/client):
//   - footdata_retries_total{error_class} (Counter): Retry attempts by error class
//   - footdata_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - footdata_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache metrics (pkg/cache):
//   - footdata_cache_hits_total{backend} (Counter): Cache hits by table/keyspace
//   - footdata_cache_misses_total{backend} (Counter): Cache misses
//   - footdata_cache_errors_total{backend, operation} (Counter): Store operation errors
//
// Quota metrics (pkg/ratelimit):
//   - footdata_quota_requests_remaining (Gauge): Requests left in the daily budget
//   - footdata_quota_blocks_total (Counter): Requests blocked on exhausted quota
//
// Aggregate metrics (pkg/aggregate):
//   - footdata_subfetch_total{data_type, outcome} (Counter): Sub-fetch outcomes
//     (fresh_hit, refreshed, stale_fallback, failed)
//   - footdata_aggregate_duration_seconds{entity} (Histogram): Aggregate call duration
//
// Example Prometheus queries:
//
//	# Cache hit rate
//	sum(rate(footdata_cache_hits_total[5m])) /
//	(sum(rate(footdata_cache_hits_total[5m])) + sum(rate(footdata_cache_misses_total[5m])))
//
//	# Stale fallback rate (provider health proxy)
//	rate(footdata_subfetch_total{outcome="stale_fallback"}[5m])
//
//	# P95 aggregate latency
//	histogram_quantile(0.95, rate(footdata_aggregate_duration_seconds_bucket[5m]))
