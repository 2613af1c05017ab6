package upgrade

import (
	"errors"
	"fmt"
	"math"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/observability"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

var (
	// ErrUnknownPlugin indicates a plan request for a plugin the catalog
	// has no record of.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrUnknownVersion indicates a plan target the catalog does not list.
	ErrUnknownVersion = errors.New("unknown version")
)

// RiskLevel grades an upgrade plan
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// UpgradeStep is one hop of an upgrade path
type UpgradeStep struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Type            version.BumpKind `json:"type"`
	BreakingChanges []BreakingChange `json:"breaking_changes"`
}

// UpgradeAnalysis is the full, auditable plan for moving a plugin between
// two versions.
type UpgradeAnalysis struct {
	PluginID             string           `json:"plugin_id"`
	CurrentVersion       string           `json:"current_version"`
	TargetVersion        string           `json:"target_version"`
	UpgradePath          []UpgradeStep    `json:"upgrade_path"`
	BreakingChanges      []BreakingChange `json:"breaking_changes"`
	RiskLevel            RiskLevel        `json:"risk_level"`
	EstimatedEffortHours float64          `json:"estimated_effort_hours"`
	RequiredActions      []string         `json:"required_actions"`
	MigrationGuide       *MigrationGuide  `json:"migration_guide,omitempty"`
}

// Catalog supplies plugin records and their known versions. A planner with a
// nil catalog skips existence checks and plans from version arithmetic alone.
type Catalog interface {
	Plugin(id string) (*plugins.Plugin, bool)
	Versions(id string) []string
}

// Nominal per-step hours by bump kind.
const (
	majorStepHours = 4.0
	minorStepHours = 1.0
	patchStepHours = 0.5
)

// Per-change hours by impact.
var changeHours = map[Impact]float64{
	ImpactLow:      0.5,
	ImpactMedium:   2,
	ImpactHigh:     8,
	ImpactCritical: 16,
}

// Testing buffer: at least two hours, or 30% of the running total.
const (
	testingBufferFloor = 2.0
	testingBufferRate  = 0.3
)

// Required-action boilerplate. Plans always open with backup and review and
// close with tests and documentation.
const (
	actionCreateBackup  = "Create a backup of the current configuration and data"
	actionReviewChanges = "Review all breaking changes listed in this analysis"
	actionRunTests      = "Run the full test suite after each upgrade step"
	actionUpdateDocs    = "Update documentation to reflect the new version"
)

// Planner produces multi-step upgrade plans across major versions.
type Planner struct {
	versions  *version.Cache
	detector  *Detector
	generator *GuideGenerator
	guides    GuideStore
	catalog   Catalog
	metrics   *observability.Metrics
	log       *logrus.Logger
}

// NewPlanner creates a planner. The detector decides per-hop breaking
// changes; guides are synthesized unless a pre-authored one is registered.
func NewPlanner(versions *version.Cache, detector *Detector, log *logrus.Logger) (*Planner, error) {
	if log == nil {
		log = logrus.New()
	}
	generator, err := NewGuideGenerator(0)
	if err != nil {
		return nil, err
	}
	return &Planner{
		versions:  versions,
		detector:  detector,
		generator: generator,
		log:       log,
	}, nil
}

// SetGuideStore attaches a registry of pre-authored migration guides.
func (p *Planner) SetGuideStore(store GuideStore) {
	p.guides = store
}

// SetCatalog attaches a plugin catalog for plan-time existence checks.
func (p *Planner) SetCatalog(catalog Catalog) {
	p.catalog = catalog
}

// SetGuideCacheSize rebuilds the synthesized-guide cache with the given
// capacity, discarding any cached guides.
func (p *Planner) SetGuideCacheSize(size int) error {
	generator, err := NewGuideGenerator(size)
	if err != nil {
		return err
	}
	p.generator = generator
	return nil
}

// SetMetrics attaches a metrics sink.
func (p *Planner) SetMetrics(m *observability.Metrics) {
	p.metrics = m
}

// Plan produces an upgrade analysis for moving pluginID from currentRaw to
// targetRaw. A plan either fully succeeds or fails outright: unparsable
// versions and unknown plugin/version records are errors, because no
// meaningful partial plan exists.
func (p *Planner) Plan(pluginID, currentRaw, targetRaw string) (*UpgradeAnalysis, error) {
	current, err := p.versions.Parse(currentRaw)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}
	target, err := p.versions.Parse(targetRaw)
	if err != nil {
		return nil, fmt.Errorf("target version: %w", err)
	}

	if err := p.checkCatalog(pluginID, targetRaw); err != nil {
		return nil, err
	}

	if version.Compare(current, target) >= 0 {
		analysis := &UpgradeAnalysis{
			PluginID:        pluginID,
			CurrentVersion:  currentRaw,
			TargetVersion:   targetRaw,
			UpgradePath:     []UpgradeStep{},
			BreakingChanges: []BreakingChange{},
			RiskLevel:       RiskLow,
			RequiredActions: []string{
				fmt.Sprintf("No upgrade needed: version %s already satisfies target %s", currentRaw, targetRaw),
			},
		}
		p.record(analysis)
		return analysis, nil
	}

	path, err := p.buildPath(pluginID, current, target)
	if err != nil {
		return nil, err
	}

	flattened := make([]BreakingChange, 0)
	for _, step := range path {
		flattened = append(flattened, step.BreakingChanges...)
	}

	majorCrossed := target.Major() > current.Major()

	analysis := &UpgradeAnalysis{
		PluginID:             pluginID,
		CurrentVersion:       currentRaw,
		TargetVersion:        targetRaw,
		UpgradePath:          path,
		BreakingChanges:      flattened,
		RiskLevel:            riskLevel(len(flattened), majorCrossed),
		EstimatedEffortHours: estimateEffort(path, flattened),
		RequiredActions:      requiredActions(path, flattened),
		MigrationGuide:       p.migrationGuide(pluginID, current, target, flattened),
	}
	p.record(analysis)
	return analysis, nil
}

// checkCatalog fails the plan when a catalog is configured and has no record
// of the plugin or the target version.
func (p *Planner) checkCatalog(pluginID, targetRaw string) error {
	if p.catalog == nil {
		return nil
	}
	if _, ok := p.catalog.Plugin(pluginID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, pluginID)
	}
	known := p.catalog.Versions(pluginID)
	if len(known) == 0 {
		return nil
	}
	for _, v := range known {
		if v == targetRaw {
			return nil
		}
	}
	return fmt.Errorf("%w: %s@%s", ErrUnknownVersion, pluginID, targetRaw)
}

// buildPath emits one step per crossed major version, each landing on
// {major}.0.0 except the final step, which targets the exact target version.
// Upgrades within one major are a single minor or patch step.
func (p *Planner) buildPath(pluginID string, current, target *semver.Version) ([]UpgradeStep, error) {
	var steps []UpgradeStep

	if target.Major() > current.Major() {
		from := current
		for major := current.Major() + 1; major <= target.Major(); major++ {
			to := target
			if major < target.Major() {
				hop, err := semver.NewVersion(fmt.Sprintf("%d.0.0", major))
				if err != nil {
					return nil, fmt.Errorf("building hop version: %w", err)
				}
				to = hop
			}

			changes, err := p.detector.Detect(pluginID, from, to)
			if err != nil {
				return nil, err
			}
			steps = append(steps, UpgradeStep{
				From:            from.String(),
				To:              to.String(),
				Type:            version.BumpMajor,
				BreakingChanges: changes,
			})
			from = to
		}
		return steps, nil
	}

	changes, err := p.detector.Detect(pluginID, current, target)
	if err != nil {
		return nil, err
	}
	return []UpgradeStep{{
		From:            current.String(),
		To:              target.String(),
		Type:            version.BumpBetween(current, target),
		BreakingChanges: changes,
	}}, nil
}

// riskLevel grades the plan. Major crossings are graded harsher than
// same-major upgrades.
func riskLevel(breakingCount int, majorCrossed bool) RiskLevel {
	if majorCrossed {
		switch {
		case breakingCount > 5:
			return RiskCritical
		case breakingCount > 2:
			return RiskHigh
		default:
			return RiskMedium
		}
	}

	switch {
	case breakingCount > 3:
		return RiskHigh
	case breakingCount > 1:
		return RiskMedium
	default:
		return RiskLow
	}
}

// estimateEffort sums nominal per-step hours and per-change hours, then adds
// a testing buffer of at least two hours or 30% of the subtotal. The result
// is rounded to one decimal place.
func estimateEffort(path []UpgradeStep, changes []BreakingChange) float64 {
	total := 0.0
	for _, step := range path {
		switch step.Type {
		case version.BumpMajor:
			total += majorStepHours
		case version.BumpMinor:
			total += minorStepHours
		case version.BumpPatch:
			total += patchStepHours
		}
	}

	for _, change := range changes {
		total += changeHours[change.Impact]
	}

	total += math.Max(testingBufferFloor, total*testingBufferRate)
	return math.Round(total*10) / 10
}

// requiredActions renders the ordered action list: backup and review first,
// one line per hop, a manual-work line when needed, tests and docs last.
func requiredActions(path []UpgradeStep, changes []BreakingChange) []string {
	actions := []string{actionCreateBackup, actionReviewChanges}

	for _, step := range path {
		actions = append(actions,
			fmt.Sprintf("Upgrade from %s to %s (%s step)", step.From, step.To, step.Type))
	}

	manual := 0
	for _, change := range changes {
		if !change.AutoFixable {
			manual++
		}
	}
	if manual > 0 {
		actions = append(actions,
			fmt.Sprintf("Manually address %d breaking change(s) that cannot be auto-fixed", manual))
	}

	return append(actions, actionRunTests, actionUpdateDocs)
}

// migrationGuide returns the pre-authored guide registered for the exact
// (plugin, fromMajor, toMajor) pair when one exists, falling back to
// synthesis from the breaking-change list.
func (p *Planner) migrationGuide(pluginID string, current, target *semver.Version, changes []BreakingChange) *MigrationGuide {
	if p.guides != nil {
		if guide, ok := p.guides.Guide(GuideKey(pluginID, current.Major(), target.Major())); ok {
			return guide
		}
	}

	guide := p.generator.Generate(pluginID, current, target, changes)
	if p.metrics != nil {
		p.metrics.GuidesSynthesized.Inc()
	}
	return guide
}

func (p *Planner) record(analysis *UpgradeAnalysis) {
	if p.metrics != nil {
		p.metrics.RecordPlan(string(analysis.RiskLevel), analysis.EstimatedEffortHours)
	}
	p.log.WithFields(logrus.Fields{
		"plugin": analysis.PluginID,
		"from":   analysis.CurrentVersion,
		"to":     analysis.TargetVersion,
		"risk":   analysis.RiskLevel,
		"steps":  len(analysis.UpgradePath),
	}).Debug("upgrade plan produced")
}
