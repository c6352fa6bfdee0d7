package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by command.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_redis_error_rate_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lumen_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RelationToggles counts toggle operations by relation and resulting state.
	RelationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_relation_toggles_total",
		Help: "Total number of like/bookmark/follow toggles by resulting state",
	}, []string{"relation", "state"})

	// NotificationsEmitted counts persisted notifications by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_notifications_emitted_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// PostDeletes counts cascading post deletions by outcome.
	PostDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_post_deletes_total",
		Help: "Total number of cascading post deletions by outcome",
	}, []string{"outcome"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_cache_lookups_total",
		Help: "Total number of cache lookups by key family and result",
	}, []string{"family", "result"})
)

// RecordToggle increments the toggle counter for relation.
func RecordToggle(relation string, present bool) {
	state := "removed"
	if present {
		state = "added"
	}
	RelationToggles.WithLabelValues(relation, state).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

var (
	httpMetrics     *fiberprometheus.FiberPrometheus
	httpMetricsOnce sync.Once
)

// HTTPMetrics returns the process-wide Fiber Prometheus middleware. The
// collectors live in the default registry, so it is created once.
func HTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}
