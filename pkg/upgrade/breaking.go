package upgrade

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// ChangeType classifies what part of the plugin a breaking change touches
type ChangeType string

const (
	ChangeAPI        ChangeType = "api"
	ChangeConfig     ChangeType = "config"
	ChangeDependency ChangeType = "dependency"
	ChangeMajor      ChangeType = "major"
)

// Impact grades how disruptive a breaking change is
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// CodeExample carries a before/after pair for a mechanically-describable change
type CodeExample struct {
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// BreakingChange is a change between two versions that can cause a dependent
// to malfunction without code changes on its part.
type BreakingChange struct {
	Version       string       `json:"version" yaml:"version"`
	Type          ChangeType   `json:"type" yaml:"type"`
	Description   string       `json:"description" yaml:"description"`
	Impact        Impact       `json:"impact" yaml:"impact"`
	MigrationPath string       `json:"migration_path" yaml:"migration_path"`
	AutoFixable   bool         `json:"auto_fixable" yaml:"auto_fixable"`
	CodeExample   *CodeExample `json:"code_example,omitempty" yaml:"code_example,omitempty"`
}

// ReleaseType tags a changelog entry with the kind of version bump it shipped
type ReleaseType string

const (
	ReleaseMajor      ReleaseType = "major"
	ReleaseMinor      ReleaseType = "minor"
	ReleasePatch      ReleaseType = "patch"
	ReleasePrerelease ReleaseType = "prerelease"
)

// ChangeSet groups the change descriptions of one release
type ChangeSet struct {
	Breaking   []string `json:"breaking,omitempty" yaml:"breaking,omitempty"`
	Features   []string `json:"features,omitempty" yaml:"features,omitempty"`
	Fixes      []string `json:"fixes,omitempty" yaml:"fixes,omitempty"`
	Deprecated []string `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// ChangelogEntry is the already-extracted changelog record for one release,
// supplied by the changelog collaborator. The engine never fetches these.
type ChangelogEntry struct {
	Version string      `json:"version" yaml:"version"`
	Date    string      `json:"date,omitempty" yaml:"date,omitempty"`
	Type    ReleaseType `json:"type" yaml:"type"`
	Changes ChangeSet   `json:"changes" yaml:"changes"`
}

// ChangelogProvider supplies changelog entries for the half-open interval
// (from, to], ordered ascending by version. An empty result means "no known
// breaking changes": the detector stays optimistic apart from synthesized
// major-bump entries.
type ChangelogProvider interface {
	Entries(pluginID string, from, to *semver.Version) ([]ChangelogEntry, error)
}

// impactKeywords is the keyword priority list for classifying a free-text
// change description. It is checked top to bottom; the first match wins.
var impactKeywords = []struct {
	impact   Impact
	keywords []string
}{
	{ImpactCritical, []string{"removed", "deleted", "deprecated api"}},
	{ImpactHigh, []string{"changed signature", "renamed", "moved"}},
	{ImpactMedium, []string{"updated", "modified", "enhanced"}},
	{ImpactLow, []string{"improved", "optimized", "fixed"}},
}

// autoFixKeywords mark changes that are mechanically rewritable.
var autoFixKeywords = []string{"renamed", "moved to", "import path changed"}

// ClassifyImpact grades a change description by keyword priority. Unmatched
// descriptions default to medium.
func ClassifyImpact(description string) Impact {
	lower := strings.ToLower(description)
	for _, tier := range impactKeywords {
		for _, keyword := range tier.keywords {
			if strings.Contains(lower, keyword) {
				return tier.impact
			}
		}
	}
	return ImpactMedium
}

// IsAutoFixable reports whether a change description names a mechanical
// rewrite. Everything else needs manual work.
func IsAutoFixable(description string) bool {
	lower := strings.ToLower(description)
	for _, keyword := range autoFixKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Detector classifies changelog entries between two versions into breaking
// changes.
type Detector struct {
	changelog ChangelogProvider
	versions  *version.Cache
	log       *logrus.Logger
}

// NewDetector creates a detector. A nil provider means no changelog data is
// available; only synthesized major-bump changes are then reported.
func NewDetector(changelog ChangelogProvider, versions *version.Cache, log *logrus.Logger) *Detector {
	if log == nil {
		log = logrus.New()
	}
	return &Detector{
		changelog: changelog,
		versions:  versions,
		log:       log,
	}
}

// Detect returns the breaking changes a dependent must absorb moving from
// `from` to `to`. Tagged breaking descriptions become api-type changes. A
// major version bump additionally synthesizes a major-type change even when
// the changelog carries no explicit breaking description: major bumps are
// treated as inherently risky.
func (d *Detector) Detect(pluginID string, from, to *semver.Version) ([]BreakingChange, error) {
	changes := make([]BreakingChange, 0)

	var entries []ChangelogEntry
	if d.changelog != nil {
		var err error
		entries, err = d.changelog.Entries(pluginID, from, to)
		if err != nil {
			return nil, fmt.Errorf("changelog for %s: %w", pluginID, err)
		}
	}

	majorCovered := false
	for _, entry := range entries {
		for _, description := range entry.Changes.Breaking {
			changes = append(changes, BreakingChange{
				Version:       entry.Version,
				Type:          ChangeAPI,
				Description:   description,
				Impact:        ClassifyImpact(description),
				MigrationPath: fmt.Sprintf("Update code affected by this change; see the %s changelog entry", entry.Version),
				AutoFixable:   IsAutoFixable(description),
			})
		}

		if entry.Type == ReleaseMajor {
			majorCovered = true
			changes = append(changes, majorBumpChange(entry.Version))
		}
	}

	if to.Major() > from.Major() && !majorCovered {
		d.log.WithFields(logrus.Fields{
			"plugin": pluginID,
			"from":   from.String(),
			"to":     to.String(),
		}).Debug("no changelog coverage for major bump, synthesizing")
		changes = append(changes, majorBumpChange(to.String()))
	}

	return changes, nil
}

func majorBumpChange(versionStr string) BreakingChange {
	return BreakingChange{
		Version:       versionStr,
		Type:          ChangeMajor,
		Description:   fmt.Sprintf("Major version bump to %s may include undocumented breaking changes", versionStr),
		Impact:        ImpactHigh,
		MigrationPath: fmt.Sprintf("Review the full release notes for %s before upgrading", versionStr),
		AutoFixable:   false,
	}
}
