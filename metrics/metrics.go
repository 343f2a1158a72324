package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contesthub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contesthub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contesthub_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts requests rejected by the rate limiter
	RateLimiterRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contesthub_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
	)

	// AuthFailures counts rejected credentials and role checks
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contesthub_auth_failures_total",
			Help: "Requests rejected by the access control middleware",
		},
		[]string{"reason"}, // "missing", "invalid", "forbidden"
	)

	// DatabaseOperationDuration measures store operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contesthub_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Registrations counts participant rows created, by how they were created
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contesthub_registrations_total",
			Help: "Participant registrations",
		},
		[]string{"source"}, // "direct", "payment"
	)

	// Payments counts checkout and verification outcomes
	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contesthub_payments_total",
			Help: "Payment flow outcomes",
		},
		[]string{"stage", "outcome"},
	)

	// WinnersDeclared counts winner declarations
	WinnersDeclared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contesthub_winners_declared_total",
			Help: "Total number of declared winners",
		},
	)

	// RoleCacheLookups counts role cache hits and misses
	RoleCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contesthub_role_cache_lookups_total",
			Help: "Role cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// RealtimeClients tracks open websocket connections
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contesthub_realtime_clients",
			Help: "Number of connected contest event subscribers",
		},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contesthub_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// SystemCPUUsage tracks CPU usage percentage
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contesthub_system_cpu_usage_percent",
			Help: "CPU usage percentage by core",
		},
		[]string{"core"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contesthub_goroutine_count",
			Help: "Number of goroutines",
		},
	)
)

// RecordDBOperation records the duration of a store operation started at startTime
func RecordDBOperation(operation string, table string, startTime time.Time) {
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}
