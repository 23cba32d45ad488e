package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sentiment cache metrics
var (
	// CacheLookups counts fingerprint lookups by result (hit/miss)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_lookups_total",
			Help: "Sentiment cache lookups by result",
		},
		[]string{"result"},
	)

	// OracleCalls counts sentiment oracle calls by mode (single/batch) and status
	OracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_oracle_calls_total",
			Help: "Sentiment oracle calls by mode and status",
		},
		[]string{"mode", "status"},
	)

	// ItemsScored counts scored items by kind (article/post/comment)
	ItemsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_items_scored_total",
			Help: "Items scored by kind",
		},
		[]string{"kind"},
	)

	// CircuitBreakerState tracks the oracle breaker (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Composite run metrics
var (
	// RunDuration tracks end to end run latency by mode (full/reused)
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "composite_run_duration_seconds",
			Help:    "Composite run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"mode"},
	)

	// RunsTotal counts runs by mode and status
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "composite_runs_total",
			Help: "Composite runs by mode and status",
		},
		[]string{"mode", "status"},
	)

	// LastScore is the most recent composite and driver scores
	LastScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "composite_last_score",
			Help: "Most recent score by component (composite/news/social/technical/analyst)",
		},
		[]string{"component"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// WebSocket metrics
var (
	// WebSocketConnectionsCurrent tracks live composite subscribers
	WebSocketConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_current",
			Help: "Current number of WebSocket subscribers",
		},
	)
)
