package performance

import (
	"strings"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
)

// Impact is the estimated resource and startup cost profile of a plugin.
// It is a declarative cost model derived from the descriptor, not a
// measurement, and is reproducible from the same descriptor every time.
type Impact struct {
	MemoryUsageMB   int `json:"memory_usage_mb"`
	CPUUsagePercent int `json:"cpu_usage_percent"`
	BundleSizeKB    int `json:"bundle_size_kb"`
	StartupTimeMs   int `json:"startup_time_ms"`
	LoadTimeMs      int `json:"load_time_ms"`
	ImpactScore     int `json:"impact_score"` // 1-10
}

// Cost model baselines and additives.
const (
	baseMemoryMB   = 50
	baseCPUPercent = 5
	baseBundleKB   = 100
	baseStartupMs  = 200
	baseLoadMs     = 100
	baseScore      = 3

	frontendBundleKB = 200
	frontendLoadMs   = 100

	backendMemoryMB   = 100
	backendCPUPercent = 10
	backendStartupMs  = 300

	heavyBundleKB = 500
	heavyLoadMs   = 300
	heavyScore    = 2

	maxScore = 10
	minScore = 1
)

// defaultHeavyDependencies lists dependency ids known to dominate bundle size
// and load time (visualization, editor, and 3D libraries). Matching is by
// case-insensitive substring so scoped ids like "@portal/monaco-editor" hit.
var defaultHeavyDependencies = []string{
	"d3",
	"three",
	"monaco-editor",
	"chart.js",
	"plotly",
	"codemirror",
	"highcharts",
	"babylon",
}

// Estimator derives an Impact from a plugin descriptor.
type Estimator struct {
	heavyDependencies []string
}

// NewEstimator creates an estimator with the default heavy-dependency list.
func NewEstimator() *Estimator {
	return &Estimator{heavyDependencies: defaultHeavyDependencies}
}

// Estimate computes the cost profile for a plugin from its declared type and
// dependency list using fixed additive baselines.
func (e *Estimator) Estimate(plugin *plugins.Plugin) Impact {
	impact := Impact{
		MemoryUsageMB:   baseMemoryMB,
		CPUUsagePercent: baseCPUPercent,
		BundleSizeKB:    baseBundleKB,
		StartupTimeMs:   baseStartupMs,
		LoadTimeMs:      baseLoadMs,
		ImpactScore:     baseScore,
	}

	switch plugin.Type {
	case plugins.PluginTypeFrontend:
		impact.BundleSizeKB += frontendBundleKB
		impact.LoadTimeMs += frontendLoadMs
	case plugins.PluginTypeBackend:
		impact.MemoryUsageMB += backendMemoryMB
		impact.CPUUsagePercent += backendCPUPercent
		impact.StartupTimeMs += backendStartupMs
	case plugins.PluginTypeCore, plugins.PluginTypeExtension, plugins.PluginTypeIntegration:
		// No type-specific additives.
	}

	if e.hasHeavyDependency(plugin) {
		impact.BundleSizeKB += heavyBundleKB
		impact.LoadTimeMs += heavyLoadMs
		impact.ImpactScore += heavyScore
	}

	if impact.ImpactScore > maxScore {
		impact.ImpactScore = maxScore
	}
	if impact.ImpactScore < minScore {
		impact.ImpactScore = minScore
	}

	return impact
}

// hasHeavyDependency reports whether any declared dependency matches the
// heavy allow-list. The additive applies once regardless of match count.
func (e *Estimator) hasHeavyDependency(plugin *plugins.Plugin) bool {
	for _, dep := range plugin.Dependencies {
		id := strings.ToLower(dep.ID)
		for _, heavy := range e.heavyDependencies {
			if strings.Contains(id, heavy) {
				return true
			}
		}
	}
	return false
}

// Estimate computes a cost profile using the default estimator.
func Estimate(plugin *plugins.Plugin) Impact {
	return NewEstimator().Estimate(plugin)
}
