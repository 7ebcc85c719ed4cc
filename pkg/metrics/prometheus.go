// Package metrics provides Prometheus metrics for the draftboard pipeline.
package metrics

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the draftboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingest Metrics
	rowsParsed      prometheus.Counter
	rowsFiltered    *prometheus.CounterVec
	sourcesSkipped  *prometheus.CounterVec
	sourcesAccepted prometheus.Counter
	fallbacks       *prometheus.CounterVec

	// Merge Metrics
	enrichmentMisses     prometheus.Counter
	enrichmentDuplicates prometheus.Counter
	playersEmitted       prometheus.Gauge

	// Run Metrics
	runDuration    *prometheus.HistogramVec
	runFailures    *prometheus.CounterVec
	lastSuccessSec *prometheus.GaugeVec

	// Repository Metrics
	repositoryQueryLatency *prometheus.HistogramVec
	repositorySnapshotUnix prometheus.Gauge
	errorsByComponent      *prometheus.CounterVec

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftboard",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_parsed_total",
		Help:        "Total number of data rows read from primary ranking input",
		ConstLabels: m.constLabels,
	})

	m.rowsFiltered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "rows_filtered_total",
			Help:        "Rows excluded from the board, by reason",
			ConstLabels: m.constLabels,
		},
		[]string{"reason"},
	)

	m.sourcesSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "sources_skipped_total",
			Help:        "Source values ignored during aggregation, by source and reason",
			ConstLabels: m.constLabels,
		},
		[]string{"source", "reason"},
	)

	m.sourcesAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sources_accepted_total",
		Help:        "Source rankings that contributed to a consensus rank",
		ConstLabels: m.constLabels,
	})

	m.fallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "consensus_fallbacks_total",
			Help:        "Players whose consensus rank came from the fallback path, by origin",
			ConstLabels: m.constLabels,
		},
		[]string{"origin"},
	)

	m.enrichmentMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "enrichment_misses_total",
		Help:        "Players without a matching enrichment record",
		ConstLabels: m.constLabels,
	})

	m.enrichmentDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "enrichment_duplicates_total",
		Help:        "Enrichment rows shadowed by a later row with the same identity key",
		ConstLabels: m.constLabels,
	})

	m.playersEmitted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_emitted",
		Help:        "Players on the most recently built board",
		ConstLabels: m.constLabels,
	})

	m.runDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "run_duration_seconds",
			Help:        "Wall time of a pipeline run, by operation",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.runFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "run_failures_total",
			Help:        "Pipeline runs that aborted with an error, by operation",
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.lastSuccessSec = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last successful run, by operation",
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.repositoryQueryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   "repository",
			Name:        "query_latency_milliseconds",
			Help:        "Board store query latency in milliseconds",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
			ConstLabels: m.constLabels,
		},
		[]string{"query"},
	)

	m.repositorySnapshotUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "repository",
		Name:        "snapshot_last_unix",
		Help:        "Unix time the served board snapshot was published",
		ConstLabels: m.constLabels,
	})

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Name:        "errors_total",
			Help:        "Errors by component and reason",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "reason"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   "http",
			Name:        "request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordRowsParsed adds n to the parsed rows counter.
func RecordRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// RecordRowFiltered counts one row excluded for reason.
func RecordRowFiltered(reason string) {
	globalManager.rowsFiltered.WithLabelValues(reason).Inc()
}

// RecordSourceSkipped counts one ignored source value.
func RecordSourceSkipped(source, reason string) {
	globalManager.sourcesSkipped.WithLabelValues(source, reason).Inc()
}

// RecordSourcesAccepted adds n contributing source rankings.
func RecordSourcesAccepted(n int) {
	globalManager.sourcesAccepted.Add(float64(n))
}

// RecordFallback counts one consensus fallback by origin ("explicit_rank", "row_order", "default").
func RecordFallback(origin string) {
	globalManager.fallbacks.WithLabelValues(origin).Inc()
}

// RecordEnrichmentMiss counts one player without enrichment.
func RecordEnrichmentMiss() {
	globalManager.enrichmentMisses.Inc()
}

// RecordEnrichmentDuplicate counts one shadowed enrichment row.
func RecordEnrichmentDuplicate() {
	globalManager.enrichmentDuplicates.Inc()
}

// UpdatePlayersEmitted sets the size of the latest board.
func UpdatePlayersEmitted(count int) {
	globalManager.playersEmitted.Set(float64(count))
}

// RecordRunDuration observes the duration of one run in seconds.
func RecordRunDuration(operation string, seconds float64) {
	globalManager.runDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordRunFailure counts one failed run.
func RecordRunFailure(operation string) {
	globalManager.runFailures.WithLabelValues(operation).Inc()
}

// RecordRunSuccess stamps the last successful run time.
func RecordRunSuccess(operation string, unixSeconds float64) {
	globalManager.lastSuccessSec.WithLabelValues(operation).Set(unixSeconds)
}

// RecordRepositoryQueryLatency observes one store query in milliseconds.
func RecordRepositoryQueryLatency(query string, ms float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(query).Observe(ms)
}

// UpdateRepositorySnapshotUnix stamps the publish time of the served snapshot.
func UpdateRepositorySnapshotUnix(unixSeconds float64) {
	globalManager.repositorySnapshotUnix.Set(unixSeconds)
}

// RecordErrorByComponent counts one error of a component.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler exposes the custom registry over HTTP.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// The file is replaced atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return errors.Mark(errors.Wrapf(err, "write metrics textfile %s", path), ErrObserveFailed)
	}
	return nil
}
