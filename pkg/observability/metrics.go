package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the compatibility engine
type Metrics struct {
	// Compatibility check metrics
	ChecksTotal      *prometheus.CounterVec
	CheckIssuesTotal *prometheus.CounterVec

	// Upgrade planning metrics
	PlansTotal      *prometheus.CounterVec
	PlanEffortHours prometheus.Histogram

	// Cache metrics
	VersionCacheHits   prometheus.Gauge
	VersionCacheMisses prometheus.Gauge
	GuidesSynthesized  prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics on the given
// registry. Passing an explicit registry keeps tests isolated from each
// other and from the default global registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compat_checks_total",
				Help: "Total number of plugin compatibility checks",
			},
			[]string{"result"},
		),
		CheckIssuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compat_check_issues_total",
				Help: "Total number of compatibility issues found",
			},
			[]string{"severity"},
		),
		PlansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upgrade_plans_total",
				Help: "Total number of upgrade plans produced",
			},
			[]string{"risk"},
		),
		PlanEffortHours: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "upgrade_plan_effort_hours",
				Help:    "Estimated effort of produced upgrade plans in hours",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
		VersionCacheHits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "version_cache_hits",
				Help: "Cumulative version parse cache hits",
			},
		),
		VersionCacheMisses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "version_cache_misses",
				Help: "Cumulative version parse cache misses",
			},
		),
		GuidesSynthesized: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "migration_guides_synthesized_total",
				Help: "Total number of migration guides synthesized on demand",
			},
		),
	}

	registry.MustRegister(
		m.ChecksTotal,
		m.CheckIssuesTotal,
		m.PlansTotal,
		m.PlanEffortHours,
		m.VersionCacheHits,
		m.VersionCacheMisses,
		m.GuidesSynthesized,
	)

	return m
}

// RecordCheck counts one compatibility check outcome.
func (m *Metrics) RecordCheck(compatible bool, issueSeverities []string) {
	result := "compatible"
	if !compatible {
		result = "incompatible"
	}
	m.ChecksTotal.WithLabelValues(result).Inc()

	for _, severity := range issueSeverities {
		m.CheckIssuesTotal.WithLabelValues(severity).Inc()
	}
}

// RecordPlan counts one produced upgrade plan.
func (m *Metrics) RecordPlan(risk string, effortHours float64) {
	m.PlansTotal.WithLabelValues(risk).Inc()
	m.PlanEffortHours.Observe(effortHours)
}

// UpdateCacheStats publishes the version cache counters.
func (m *Metrics) UpdateCacheStats(hits, misses uint64) {
	m.VersionCacheHits.Set(float64(hits))
	m.VersionCacheMisses.Set(float64(misses))
}
