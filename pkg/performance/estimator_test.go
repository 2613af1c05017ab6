package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
)

func TestEstimate_Baseline(t *testing.T) {
	impact := Estimate(&plugins.Plugin{ID: "basic", Type: plugins.PluginTypeExtension})

	assert.Equal(t, Impact{
		MemoryUsageMB:   50,
		CPUUsagePercent: 5,
		BundleSizeKB:    100,
		StartupTimeMs:   200,
		LoadTimeMs:      100,
		ImpactScore:     3,
	}, impact)
}

func TestEstimate_Frontend(t *testing.T) {
	impact := Estimate(&plugins.Plugin{ID: "ui", Type: plugins.PluginTypeFrontend})

	assert.Equal(t, 300, impact.BundleSizeKB)
	assert.Equal(t, 200, impact.LoadTimeMs)
	assert.Equal(t, 50, impact.MemoryUsageMB, "memory unchanged for frontend")
}

func TestEstimate_Backend(t *testing.T) {
	impact := Estimate(&plugins.Plugin{ID: "api", Type: plugins.PluginTypeBackend})

	assert.Equal(t, 150, impact.MemoryUsageMB)
	assert.Equal(t, 15, impact.CPUUsagePercent)
	assert.Equal(t, 500, impact.StartupTimeMs)
	assert.Equal(t, 100, impact.BundleSizeKB, "bundle unchanged for backend")
}

func TestEstimate_HeavyDependencies(t *testing.T) {
	tests := []struct {
		name  string
		deps  []plugins.Dependency
		heavy bool
	}{
		{
			name:  "d3",
			deps:  []plugins.Dependency{{ID: "d3"}},
			heavy: true,
		},
		{
			name:  "scoped monaco",
			deps:  []plugins.Dependency{{ID: "@portal/monaco-editor"}},
			heavy: true,
		},
		{
			name:  "case insensitive",
			deps:  []plugins.Dependency{{ID: "Chart.JS"}},
			heavy: true,
		},
		{
			name: "heavy additive applies once",
			deps: []plugins.Dependency{
				{ID: "d3"}, {ID: "three"}, {ID: "plotly"},
			},
			heavy: true,
		},
		{
			name:  "light deps",
			deps:  []plugins.Dependency{{ID: "lodash"}, {ID: "axios"}},
			heavy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := Estimate(&plugins.Plugin{
				ID:           "p",
				Type:         plugins.PluginTypeExtension,
				Dependencies: tt.deps,
			})

			if tt.heavy {
				assert.Equal(t, 600, impact.BundleSizeKB)
				assert.Equal(t, 400, impact.LoadTimeMs)
				assert.Equal(t, 5, impact.ImpactScore)
			} else {
				assert.Equal(t, 100, impact.BundleSizeKB)
				assert.Equal(t, 3, impact.ImpactScore)
			}
		})
	}
}

func TestEstimate_FrontendWithHeavyDeps(t *testing.T) {
	impact := Estimate(&plugins.Plugin{
		ID:           "viz",
		Type:         plugins.PluginTypeFrontend,
		Dependencies: []plugins.Dependency{{ID: "d3"}},
	})

	assert.Equal(t, 800, impact.BundleSizeKB, "100 base + 200 frontend + 500 heavy")
	assert.Equal(t, 500, impact.LoadTimeMs, "100 base + 100 frontend + 300 heavy")
	assert.Equal(t, 5, impact.ImpactScore)
}

func TestEstimate_Deterministic(t *testing.T) {
	plugin := &plugins.Plugin{
		ID:           "p",
		Type:         plugins.PluginTypeBackend,
		Dependencies: []plugins.Dependency{{ID: "three"}},
	}

	first := Estimate(plugin)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Estimate(plugin))
	}
}
