// Package metrics provides Prometheus metrics for the VIVA assessment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the VIVA service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Extraction Metrics - document -> text collaborator
	documentsExtracted *prometheus.CounterVec
	extractionErrors   prometheus.Counter
	documentPages      prometheus.Histogram

	// Segmentation Metrics
	itemsSegmented    prometheus.Counter
	splitStrategyHits *prometheus.CounterVec
	alignmentWarnings prometheus.Counter

	// Scoring Metrics - what really matters for assessment quality
	itemsScored    prometheus.Counter
	degradedScores prometheus.Counter
	scoringLatency prometheus.Histogram

	// Job Metrics
	jobsStarted   prometheus.Counter
	jobsCompleted prometheus.Counter
	jobsErrored   prometheus.Counter
	activeJobs    prometheus.Gauge

	// Stream Metrics - per-job event channels
	eventsPublished *prometheus.CounterVec
	eventsDropped   prometheus.Counter
	subscribers     prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "viva",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Extraction Metrics
	m.documentsExtracted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "documents_extracted_total",
			Help:      "Total number of documents successfully extracted to text",
		},
		[]string{"role"},
	)

	m.extractionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_errors_total",
		Help:      "Total number of rejected or failed document extractions",
	})

	m.documentPages = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "document_pages",
		Help:      "Histogram of page counts in extracted documents",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	// Segmentation Metrics
	m.itemsSegmented = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_segmented_total",
		Help:      "Total number of item blocks produced by segmentation",
	})

	m.splitStrategyHits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "split_strategy_hits_total",
			Help:      "Total number of splits attributed to each heuristic strategy",
		},
		[]string{"strategy"},
	)

	m.alignmentWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alignment_warnings_total",
		Help:      "Total number of submission items with no matching key entry",
	})

	// Scoring Metrics
	m.itemsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_scored_total",
		Help:      "Total number of items scored by the gateway",
	})

	m.degradedScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degraded_scores_total",
		Help:      "Total number of items that degraded to a zero score (indicates gateway health)",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-item scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Job Metrics
	m.jobsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_started_total",
		Help:      "Total number of assessment jobs started",
	})

	m.jobsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_completed_total",
		Help:      "Total number of assessment jobs that reached the done event",
	})

	m.jobsErrored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_errored_total",
		Help:      "Total number of assessment jobs that published an error event",
	})

	m.activeJobs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_jobs",
		Help:      "Number of assessment jobs currently running",
	})

	// Stream Metrics
	m.eventsPublished = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_published_total",
			Help:      "Total number of events published to job channels",
		},
		[]string{"type"},
	)

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Total number of events dropped because a job channel was full",
	})

	m.subscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_subscribers",
		Help:      "Number of connected event stream subscribers",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordDocumentExtracted increments the extracted documents counter for a role
// (e.g. "submission", "answer_key").
func RecordDocumentExtracted(role string) {
	globalManager.documentsExtracted.WithLabelValues(role).Inc()
}

// RecordExtractionError increments the extraction errors counter.
func RecordExtractionError() {
	globalManager.extractionErrors.Inc()
}

// RecordDocumentPages records the page count of an extracted document.
func RecordDocumentPages(pages int) {
	globalManager.documentPages.Observe(float64(pages))
}

// RecordItemsSegmented adds to the segmented items counter.
func RecordItemsSegmented(count int) {
	globalManager.itemsSegmented.Add(float64(count))
}

// RecordSplitStrategy increments the hit counter for a split strategy.
func RecordSplitStrategy(strategy string) {
	globalManager.splitStrategyHits.WithLabelValues(strategy).Inc()
}

// RecordAlignmentWarning increments the alignment warnings counter.
func RecordAlignmentWarning() {
	globalManager.alignmentWarnings.Inc()
}

// RecordItemScored increments the scored items counter.
func RecordItemScored() {
	globalManager.itemsScored.Inc()
}

// RecordDegradedScore increments the degraded scores counter.
func RecordDegradedScore() {
	globalManager.degradedScores.Inc()
}

// RecordScoringLatency records per-item scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordJobStarted increments the started jobs counter.
func RecordJobStarted() {
	globalManager.jobsStarted.Inc()
}

// RecordJobCompleted increments the completed jobs counter.
func RecordJobCompleted() {
	globalManager.jobsCompleted.Inc()
}

// RecordJobErrored increments the errored jobs counter.
func RecordJobErrored() {
	globalManager.jobsErrored.Inc()
}

// UpdateActiveJobs sets the number of currently running jobs.
func UpdateActiveJobs(count int) {
	globalManager.activeJobs.Set(float64(count))
}

// RecordEventPublished increments the published events counter for an event type.
func RecordEventPublished(eventType string) {
	globalManager.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventDropped increments the dropped events counter.
func RecordEventDropped() {
	globalManager.eventsDropped.Inc()
}

// UpdateSubscribers sets the number of connected stream subscribers.
func UpdateSubscribers(count int) {
	globalManager.subscribers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
