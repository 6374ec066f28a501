package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StoreOperations counts store operations by name and outcome.
	StoreOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ServiceName,
		Name:      "store_operations_total",
		Help:      "Total number of store operations by operation and result",
	}, []string{"operation", "result"})

	// StoreOperationDuration records store transaction latency by operation.
	StoreOperationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ServiceName,
		Name:      "store_operation_duration_seconds",
		Help:      "Store operation latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// CacheRequests counts cache-aside lookups by outcome: hit, miss, error, or
	// stale when a fill lost a race with an invalidation.
	CacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ServiceName,
		Name:      "cache_requests_total",
		Help:      "Total number of cache lookups by outcome",
	}, []string{"outcome"})
)

// Collectors returns the application collectors so a server can register
// them on its own registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{StoreOperations, StoreOperationDuration, CacheRequests}
}

// Result labels for StoreOperations.
const (
	ResultOK         = "ok"
	ResultNotFound   = "not_found"
	ResultConstraint = "constraint"
	ResultError      = "error"
)

// ObserveStoreOperation records one finished store operation.
func ObserveStoreOperation(operation, result string, start time.Time) {
	StoreOperations.WithLabelValues(operation, result).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
