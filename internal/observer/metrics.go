package observer

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsEnabled = true // Flag to control metric collection

	// Labels for HTTP request metrics
	httpRequestLabels = []string{"method", "path", "status"}

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_http_requests_total",
			Help: "Total number of HTTP requests handled, labeled by method, path and status code.",
		},
		httpRequestLabels,
	)
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "push_activity_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		httpRequestLabels,
	)
)

// Metrics related to sync cycles
var (
	syncOutcomeLabels = []string{"status"}

	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_sync_runs_total",
			Help: "Total number of sync cycles started, labeled by final status.",
		},
		syncOutcomeLabels,
	)
	syncDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "push_activity_sync_duration_seconds",
			Help:    "Histogram of full sync cycle durations.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.5m
		},
	)
	syncChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_sync_changes_total",
			Help: "Total number of reconciliation changes recorded, labeled by change type.",
		},
		[]string{"change_type"},
	)
	syncRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_activity_sync_rejected_total",
		Help: "Total number of sync requests rejected because a cycle was already running.",
	})
)

// Metrics related to push operations
var (
	pushLabels = []string{"action"} // push_all or push_new

	pushRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_push_requests_total",
			Help: "Total number of push operations attempted, labeled by action.",
		},
		pushLabels,
	)
	pushCompaniesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_push_companies_total",
			Help: "Total number of companies marked as pushed, labeled by action.",
		},
		pushLabels,
	)
	pushPublishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_activity_push_publish_errors_total",
			Help: "Total number of activity-log publish failures during pushes, labeled by action and error type.",
		},
		[]string{"action", "error_type"},
	)
)

// Labels for database operations
var (
	dbOperationLabels = []string{"operation", "entity", "status"}

	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "push_activity_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// Metrics related to the upstream campaign feed
var (
	upstreamLabels = []string{"operation", "status"}

	upstreamRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "push_activity_upstream_request_duration_seconds",
			Help:    "Histogram of upstream feed request durations, labeled by operation and status.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		upstreamLabels,
	)
)

// InitMetrics initializes the Prometheus metrics if enabled.
// Call this function during application startup.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
	// Metrics are already auto-registered via promauto, so no explicit registration needed here.
}

// RecordHTTPRequest increments the request counter and observes duration.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncSyncRun increments the sync cycle counter for a final status.
func IncSyncRun(status string) {
	if !metricsEnabled {
		return
	}
	syncRunsTotal.WithLabelValues(status).Inc()
}

// ObserveSyncDuration records the wall-clock time of a full sync cycle.
func ObserveSyncDuration(duration time.Duration) {
	if !metricsEnabled {
		return
	}
	syncDurationSeconds.Observe(duration.Seconds())
}

// AddSyncChanges adds to the change counter for a given change type.
func AddSyncChanges(changeType string, count int) {
	if !metricsEnabled || count == 0 {
		return
	}
	syncChangesTotal.WithLabelValues(changeType).Add(float64(count))
}

// IncSyncRejected increments the counter for rejected concurrent sync requests.
func IncSyncRejected() {
	if !metricsEnabled {
		return
	}
	syncRejectedTotal.Inc()
}

// IncPushRequest increments the push operation counter.
func IncPushRequest(action string) {
	if !metricsEnabled {
		return
	}
	pushRequestsTotal.WithLabelValues(action).Inc()
}

// AddPushedCompanies adds to the pushed-company counter.
func AddPushedCompanies(action string, count int) {
	if !metricsEnabled || count == 0 {
		return
	}
	pushCompaniesTotal.WithLabelValues(action).Add(float64(count))
}

// IncPushPublishError increments the counter for publish failures during a push.
func IncPushPublishError(action string, err error) {
	if !metricsEnabled {
		return
	}
	errType := "none"
	if err != nil {
		errType = SanitizeErrorType(err.Error())
	}
	pushPublishErrorsTotal.WithLabelValues(action, errType).Inc()
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}

// ObserveUpstreamRequestDuration records the duration of an upstream feed call.
func ObserveUpstreamRequestDuration(operation string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	upstreamRequestDurationSeconds.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SanitizeErrorType maps specific errors to a coarse category.
// Keep this simple to avoid high cardinality.
func SanitizeErrorType(errStr string) string {
	// If no error (e.g., for success actions), return "none"
	if errStr == "" || errStr == "none" {
		return "none"
	}

	switch {
	case strings.Contains(errStr, "database"), strings.Contains(errStr, "SQL"), strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "constraint"), strings.Contains(errStr, "connection"):
		return "database"
	case strings.Contains(errStr, "validation failed"), strings.Contains(errStr, "bad request"), strings.Contains(errStr, "invalid"), strings.Contains(errStr, "missing field"):
		return "validation"
	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "no rows"):
		return "not_found"
	case strings.Contains(errStr, "nats"), strings.Contains(errStr, "jetstream"):
		return "nats"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "timeout"
	case strings.Contains(errStr, "unmarshal"), strings.Contains(errStr, "json"):
		return "unmarshal"
	case strings.Contains(errStr, "panic"):
		return "panic"
	default:
		return "unknown"
	}
}
