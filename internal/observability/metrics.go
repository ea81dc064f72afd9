package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "konishi_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "konishi_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedAssembled counts assembled feeds by strategy.
	FeedAssembled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "konishi_feed_assembled_total",
		Help: "Total number of feeds assembled by strategy",
	}, []string{"strategy"})

	// FeedLength records the number of post ids per assembled feed.
	FeedLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "konishi_feed_length",
		Help:    "Number of post ids returned per feed",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"strategy"})

	// PostsHydrated counts posts hydrated for delivery.
	PostsHydrated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "konishi_posts_hydrated_total",
		Help: "Total number of posts hydrated",
	})

	// RateLimitRejected counts requests refused by the rate limiter, by resource.
	RateLimitRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "konishi_rate_limit_rejected_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})

	// HydrationDegraded counts decorative lookups that failed during hydration.
	HydrationDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "konishi_hydration_degraded_total",
		Help: "Hydrations that continued without a decorative field, by reason",
	}, []string{"reason"})
)

// Hydration degradation reasons.
const (
	ReasonAuthorMissing   = "author_missing"
	ReasonImageUnresolved = "image_unresolved"
	ReasonPostMissing     = "post_missing"
)

// DatabaseMetrics records query latency for a repository.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance for table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
