package upgrade

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// Difficulty grades how hard a migration is to carry out
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GuideStep is one actionable item in a migration guide
type GuideStep struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	CodeBefore  string `json:"code_before,omitempty" yaml:"code_before,omitempty"`
	CodeAfter   string `json:"code_after,omitempty" yaml:"code_after,omitempty"`
}

// MigrationGuide is a human-actionable rendering of an upgrade's breaking
// changes.
type MigrationGuide struct {
	FromVersion string      `json:"from_version" yaml:"from_version"`
	ToVersion   string      `json:"to_version" yaml:"to_version"`
	Overview    string      `json:"overview" yaml:"overview"`
	Steps       []GuideStep `json:"steps" yaml:"steps"`
	Warnings    []string    `json:"warnings" yaml:"warnings"`
	Difficulty  Difficulty  `json:"difficulty" yaml:"difficulty"`
}

// GuideStore supplies pre-authored migration guides keyed by
// "pluginID:<fromMajor>to<toMajor>". Consulted before falling back to
// synthesis.
type GuideStore interface {
	Guide(key string) (*MigrationGuide, bool)
}

// GuideKey builds the lookup key for a pre-authored guide.
func GuideKey(pluginID string, fromMajor, toMajor uint64) string {
	return fmt.Sprintf("%s:%dto%d", pluginID, fromMajor, toMajor)
}

// Standing warnings every guide ends with.
const (
	warnTestBeforeProduction = "Test the upgrade thoroughly in a staging environment before deploying to production"
	warnCreateBackup         = "Create a backup before starting the migration"
)

// manualStepsHardThreshold: more manual changes than this grade the guide hard.
const manualStepsHardThreshold = 3

// GuideGenerator synthesizes migration guides from breaking-change lists.
// Synthesized guides are cached; guides are pure functions of their inputs,
// so the cache is read-through and never required for correctness.
type GuideGenerator struct {
	cache *lru.Cache[string, *MigrationGuide]
}

// NewGuideGenerator creates a generator with a bounded guide cache. A size
// <= 0 selects a default of 512 entries.
func NewGuideGenerator(cacheSize int) (*GuideGenerator, error) {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, *MigrationGuide](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create guide cache: %w", err)
	}
	return &GuideGenerator{cache: cache}, nil
}

// Generate renders a guide for moving a plugin between two versions given its
// breaking changes. Repeated calls with the same plugin and versions return
// the cached guide.
func (g *GuideGenerator) Generate(pluginID string, from, to *semver.Version, changes []BreakingChange) *MigrationGuide {
	key := fmt.Sprintf("%s:%s:%s", pluginID, from.String(), to.String())
	if guide, ok := g.cache.Get(key); ok {
		return guide
	}

	guide := &MigrationGuide{
		FromVersion: from.String(),
		ToVersion:   to.String(),
		Overview: fmt.Sprintf("This is a %s version upgrade from %s to %s with %d breaking change(s).",
			version.BumpBetween(from, to), from, to, len(changes)),
		Steps:      buildSteps(changes),
		Warnings:   buildWarnings(changes),
		Difficulty: classifyDifficulty(changes),
	}

	g.cache.Add(key, guide)
	return guide
}

func buildSteps(changes []BreakingChange) []GuideStep {
	steps := make([]GuideStep, 0, len(changes))
	for i, change := range changes {
		step := GuideStep{
			Title:       fmt.Sprintf("%d. %s", i+1, change.Description),
			Description: change.MigrationPath,
		}
		if change.CodeExample != nil {
			step.CodeBefore = change.CodeExample.Before
			step.CodeAfter = change.CodeExample.After
		}
		steps = append(steps, step)
	}
	return steps
}

func buildWarnings(changes []BreakingChange) []string {
	warnings := make([]string, 0, 3)

	criticals := 0
	for _, change := range changes {
		if change.Impact == ImpactCritical {
			criticals++
		}
	}
	if criticals > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d critical change(s) require careful attention", criticals))
	}

	return append(warnings, warnTestBeforeProduction, warnCreateBackup)
}

// classifyDifficulty: hard when any critical-impact change exists or more
// than three changes need manual work; medium when any high-impact or any
// manual change exists; easy otherwise.
func classifyDifficulty(changes []BreakingChange) Difficulty {
	manual := 0
	anyCritical := false
	anyHigh := false
	for _, change := range changes {
		if !change.AutoFixable {
			manual++
		}
		switch change.Impact {
		case ImpactCritical:
			anyCritical = true
		case ImpactHigh:
			anyHigh = true
		case ImpactMedium, ImpactLow:
		}
	}

	switch {
	case anyCritical || manual > manualStepsHardThreshold:
		return DifficultyHard
	case anyHigh || manual > 0:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
