package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// MetricsConfig configures import metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vhv").
	Namespace string

	// Subsystem is the metrics subsystem (default: "importer").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures import metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vhv",
		Subsystem: "importer",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the importer's Prometheus collectors. A nil *Metrics records
// nothing.
//
// Collected:
//   - vhv_importer_imports_total: imports by status (success, dry_run, error)
//   - vhv_importer_errors_total: failed imports by error category
//   - vhv_importer_import_duration_seconds: whole-import duration
//   - vhv_importer_stage_duration_seconds: duration by stage
//   - vhv_importer_components_total: components found by analysis
//   - vhv_importer_unanalyzable_files_total: files the analyzer skipped
type Metrics struct {
	importsTotal     *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	importDuration   prometheus.Histogram
	stageDuration    *prometheus.HistogramVec
	componentsTotal  prometheus.Counter
	unanalyzableFile prometheus.Counter
}

// NewMetrics registers the importer collectors. Registering twice with the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		importsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "imports_total",
			Help:        "Total number of template imports",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed imports by error category",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		importDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "import_duration_seconds",
			Help:        "Template import duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stage_duration_seconds",
			Help:        "Import stage duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"stage"}),

		componentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_total",
			Help:        "Total number of components discovered by analysis",
			ConstLabels: config.ConstLabels,
		}),

		unanalyzableFile: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unanalyzable_files_total",
			Help:        "Total number of files skipped by the analyzer",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observeImport(err error, dryRun bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	switch {
	case err != nil:
		status = "error"
		category := string(errors.CategoryOf(err))
		if category == "" {
			category = "internal"
		}
		m.errorsTotal.WithLabelValues(category).Inc()
	case dryRun:
		status = "dry_run"
	}
	m.importsTotal.WithLabelValues(status).Inc()
	m.importDuration.Observe(d.Seconds())
}

func (m *Metrics) observeStage(stage Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (m *Metrics) observeAnalysis(r *analyzer.Result) {
	if m == nil {
		return
	}
	m.componentsTotal.Add(float64(len(r.Components)))
	m.unanalyzableFile.Add(float64(len(r.Unanalyzable)))
}
