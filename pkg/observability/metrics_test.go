package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	m.RecordCheck(true, []string{"warning", "warning"})
	m.RecordCheck(false, []string{"critical"})

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ChecksTotal.WithLabelValues("compatible")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ChecksTotal.WithLabelValues("incompatible")))
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.CheckIssuesTotal.WithLabelValues("warning")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.CheckIssuesTotal.WithLabelValues("critical")))
}

func TestMetrics_RecordPlan(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordPlan("medium", 31.2)
	m.RecordPlan("low", 3.0)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.PlansTotal.WithLabelValues("medium")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.PlansTotal.WithLabelValues("low")))
}

func TestMetrics_UpdateCacheStats(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.UpdateCacheStats(10, 4)

	assert.Equal(t, float64(10), testutil.ToFloat64(m.VersionCacheHits))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.VersionCacheMisses))
}
