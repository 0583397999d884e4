// Package metrics provides Prometheus metrics for the XParky points portal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the portal service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a points portal
	aggregations        prometheus.Counter
	aggregationErrors   prometheus.Counter
	aggregationDuration prometheus.Histogram
	duplicateFileNames  prometheus.Counter
	rosterFallbacks     prometheus.Counter

	// Leaderboard Snapshot Metrics - Scale of the cohort being served
	totalStudents prometheus.Gauge
	totalPoints   prometheus.Gauge
	topScore      prometheus.Gauge

	// Drive Adapter Metrics - Upstream API health
	driveRequests       *prometheus.CounterVec
	driveRequestErrors  *prometheus.CounterVec
	driveRequestLatency *prometheus.HistogramVec
	tokenRefreshes      prometheus.Counter
	tokenRefreshErrors  prometheus.Counter

	// Lookup Cache Metrics - Certificate catalog cache effectiveness
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// Certificate Metrics
	certificateDownloads prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "xparky",
		subsystem:        "portal",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// counterOpts builds counter options carrying the manager's namespace,
// subsystem, and constant labels.
func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics registers every metric family on the configured
// registry (custom by default).
func (m *Manager) initializeMetrics() { //nolint:funlen // one registration per metric family
	auto := promauto.With(m.registry)

	// Core business metrics
	m.aggregations = auto.NewCounter(m.counterOpts("aggregations_total",
		"Total number of completed point aggregation runs"))
	m.aggregationErrors = auto.NewCounter(m.counterOpts("aggregation_errors_total",
		"Total number of aggregation runs that failed"))
	m.aggregationDuration = auto.NewHistogram(m.histogramOpts("aggregation_duration_milliseconds",
		"Histogram of full aggregation run duration in milliseconds", m.histogramBuckets))
	m.duplicateFileNames = auto.NewCounter(m.counterOpts("duplicate_file_names_total",
		"Total number of classroom submissions skipped as duplicates (indicates data quality)"))
	m.rosterFallbacks = auto.NewCounter(m.counterOpts("roster_fallbacks_total",
		"Total number of aggregations served without roster names (roster unavailable)"))

	// Leaderboard snapshot metrics
	m.totalStudents = auto.NewGauge(m.gaugeOpts("total_students",
		"Number of students on the latest leaderboard (business scale)"))
	m.totalPoints = auto.NewGauge(m.gaugeOpts("total_points",
		"Sum of XParky points across the latest leaderboard"))
	m.topScore = auto.NewGauge(m.gaugeOpts("top_score",
		"Highest XParky point total on the latest leaderboard"))

	// Drive adapter metrics
	m.driveRequests = auto.NewCounterVec(m.counterOpts("drive_requests_total",
		"Total number of Drive API requests by operation"),
		[]string{"operation"})
	m.driveRequestErrors = auto.NewCounterVec(m.counterOpts("drive_request_errors_total",
		"Total number of failed Drive API requests by operation"),
		[]string{"operation"})
	m.driveRequestLatency = auto.NewHistogramVec(m.histogramOpts("drive_request_latency_milliseconds",
		"Drive API request latency in milliseconds by operation", m.histogramBuckets),
		[]string{"operation"})
	m.tokenRefreshes = auto.NewCounter(m.counterOpts("token_refreshes_total",
		"Total number of service account token refreshes"))
	m.tokenRefreshErrors = auto.NewCounter(m.counterOpts("token_refresh_errors_total",
		"Total number of failed service account token refreshes"))

	// Lookup cache metrics
	m.cacheHits = auto.NewCounterVec(m.counterOpts("cache_hits_total",
		"Total number of lookup cache hits by operation"),
		[]string{"operation"})
	m.cacheMisses = auto.NewCounterVec(m.counterOpts("cache_misses_total",
		"Total number of lookup cache misses by operation"),
		[]string{"operation"})

	// Certificate metrics
	m.certificateDownloads = auto.NewCounter(m.counterOpts("certificate_downloads_total",
		"Total number of certificate images served"))

	// HTTP performance metrics
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds (user experience)", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	// Error tracking metrics
	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	// System performance metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordAggregation increments the completed aggregation runs counter.
func RecordAggregation() {
	globalManager.aggregations.Inc()
}

// RecordAggregationError increments the failed aggregation runs counter.
func RecordAggregationError() {
	globalManager.aggregationErrors.Inc()
}

// RecordAggregationDuration records a full aggregation run duration in milliseconds.
func RecordAggregationDuration(durationMs float64) {
	globalManager.aggregationDuration.Observe(durationMs)
}

// RecordDuplicateFileName increments the duplicate submission counter.
func RecordDuplicateFileName() {
	globalManager.duplicateFileNames.Inc()
}

// RecordRosterFallback increments the roster fallback counter.
func RecordRosterFallback() {
	globalManager.rosterFallbacks.Inc()
}

// UpdateStudentCount sets the student count of the latest leaderboard.
func UpdateStudentCount(count int) {
	globalManager.totalStudents.Set(float64(count))
}

// UpdateTotalPoints sets the total points of the latest leaderboard.
func UpdateTotalPoints(points int) {
	globalManager.totalPoints.Set(float64(points))
}

// UpdateTopScore sets the highest point total of the latest leaderboard.
func UpdateTopScore(points int) {
	globalManager.topScore.Set(float64(points))
}

// Drive Adapter Metrics Functions.

// RecordDriveRequest increments the Drive request counter for an operation.
func RecordDriveRequest(operation string) {
	globalManager.driveRequests.WithLabelValues(operation).Inc()
}

// RecordDriveRequestError increments the Drive request error counter for an operation.
func RecordDriveRequestError(operation string) {
	globalManager.driveRequestErrors.WithLabelValues(operation).Inc()
}

// RecordDriveRequestLatency records Drive request latency for an operation.
func RecordDriveRequestLatency(operation string, latencyMs float64) {
	globalManager.driveRequestLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordTokenRefresh increments the token refresh counter.
func RecordTokenRefresh() {
	globalManager.tokenRefreshes.Inc()
}

// RecordTokenRefreshError increments the token refresh error counter.
func RecordTokenRefreshError() {
	globalManager.tokenRefreshErrors.Inc()
}

// Lookup Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter for an operation.
func RecordCacheHit(operation string) {
	globalManager.cacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss increments the cache miss counter for an operation.
func RecordCacheMiss(operation string) {
	globalManager.cacheMisses.WithLabelValues(operation).Inc()
}

// RecordCertificateDownload increments the certificate download counter.
func RecordCertificateDownload() {
	globalManager.certificateDownloads.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns how often the system gauges should be sampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
