package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) *GuideGenerator {
	t.Helper()
	g, err := NewGuideGenerator(0)
	require.NoError(t, err)
	return g
}

func TestGenerate_Overview(t *testing.T) {
	g := newTestGenerator(t)

	guide := g.Generate("p",
		mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"),
		[]BreakingChange{{Description: "Removed X", Impact: ImpactCritical, MigrationPath: "Use Y"}})

	assert.Equal(t, "1.0.0", guide.FromVersion)
	assert.Equal(t, "2.0.0", guide.ToVersion)
	assert.Equal(t, "This is a major version upgrade from 1.0.0 to 2.0.0 with 1 breaking change(s).", guide.Overview)
}

func TestGenerate_Steps(t *testing.T) {
	g := newTestGenerator(t)

	changes := []BreakingChange{
		{
			Description:   "Renamed CatalogClient to EntityClient",
			Impact:        ImpactHigh,
			MigrationPath: "Rename all references",
			AutoFixable:   true,
			CodeExample: &CodeExample{
				Before: "client := NewCatalogClient()",
				After:  "client := NewEntityClient()",
			},
		},
		{
			Description:   "Changed signature of RegisterHook",
			Impact:        ImpactHigh,
			MigrationPath: "Add the context argument",
		},
	}

	guide := g.Generate("p", mustVersion(t, "1.0.0"), mustVersion(t, "1.1.0"), changes)

	require.Len(t, guide.Steps, 2)
	assert.Equal(t, "1. Renamed CatalogClient to EntityClient", guide.Steps[0].Title)
	assert.Equal(t, "Rename all references", guide.Steps[0].Description)
	assert.Equal(t, "client := NewCatalogClient()", guide.Steps[0].CodeBefore)
	assert.Equal(t, "client := NewEntityClient()", guide.Steps[0].CodeAfter)
	assert.Equal(t, "2. Changed signature of RegisterHook", guide.Steps[1].Title)
	assert.Empty(t, guide.Steps[1].CodeBefore)
}

func TestGenerate_Warnings(t *testing.T) {
	g := newTestGenerator(t)

	plain := g.Generate("p", mustVersion(t, "1.0.0"), mustVersion(t, "1.1.0"),
		[]BreakingChange{{Description: "Updated defaults", Impact: ImpactMedium}})
	require.Len(t, plain.Warnings, 2)
	assert.Equal(t, warnTestBeforeProduction, plain.Warnings[0])
	assert.Equal(t, warnCreateBackup, plain.Warnings[1])

	critical := g.Generate("p", mustVersion(t, "1.0.0"), mustVersion(t, "2.0.0"),
		[]BreakingChange{
			{Description: "Removed A", Impact: ImpactCritical},
			{Description: "Removed B", Impact: ImpactCritical},
		})
	require.Len(t, critical.Warnings, 3)
	assert.Equal(t, "2 critical change(s) require careful attention", critical.Warnings[0])
}

func TestGenerate_Difficulty(t *testing.T) {
	g := newTestGenerator(t)
	from := mustVersion(t, "1.0.0")

	tests := []struct {
		name    string
		to      string
		changes []BreakingChange
		want    Difficulty
	}{
		{
			name: "no changes",
			to:   "1.0.1",
			want: DifficultyEasy,
		},
		{
			name: "auto-fixable low impact",
			to:   "1.0.2",
			changes: []BreakingChange{
				{Impact: ImpactLow, AutoFixable: true},
			},
			want: DifficultyEasy,
		},
		{
			name: "one manual change",
			to:   "1.0.3",
			changes: []BreakingChange{
				{Impact: ImpactMedium},
			},
			want: DifficultyMedium,
		},
		{
			name: "high impact",
			to:   "1.0.4",
			changes: []BreakingChange{
				{Impact: ImpactHigh, AutoFixable: true},
			},
			want: DifficultyMedium,
		},
		{
			name: "critical impact",
			to:   "1.0.5",
			changes: []BreakingChange{
				{Impact: ImpactCritical, AutoFixable: true},
			},
			want: DifficultyHard,
		},
		{
			name: "many manual changes",
			to:   "1.0.6",
			changes: []BreakingChange{
				{Impact: ImpactLow}, {Impact: ImpactLow},
				{Impact: ImpactLow}, {Impact: ImpactLow},
			},
			want: DifficultyHard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guide := g.Generate("p", from, mustVersion(t, tt.to), tt.changes)
			assert.Equal(t, tt.want, guide.Difficulty)
		})
	}
}

func TestGenerate_Cached(t *testing.T) {
	g := newTestGenerator(t)
	from := mustVersion(t, "1.0.0")
	to := mustVersion(t, "2.0.0")
	changes := []BreakingChange{{Description: "Removed X", Impact: ImpactCritical}}

	first := g.Generate("p", from, to, changes)
	second := g.Generate("p", from, to, changes)

	assert.Same(t, first, second, "repeated generation returns the cached guide")
}

func TestGuideKey(t *testing.T) {
	assert.Equal(t, "catalog:1to3", GuideKey("catalog", 1, 3))
}
