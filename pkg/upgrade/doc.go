// Package upgrade plans multi-step plugin version upgrades.
//
// # Overview
//
// This package turns a (plugin, current version, target version) request into
// an auditable upgrade analysis: the hop-by-hop path, the breaking changes
// each hop carries, a risk grade, an effort estimate in hours, the ordered
// actions an operator must take, and a migration guide.
//
// # Components
//
// Detector: Classifies changelog entries between two versions into breaking
// changes. Major version bumps always carry at least one breaking change,
// synthesized when the changelog has no coverage.
//
// Planner: Builds the upgrade path (one hop per crossed major version,
// landing on {major}.0.0 except the final hop), grades risk, estimates
// effort, and assembles the required-action list.
//
// GuideGenerator: Synthesizes migration guides from breaking-change lists,
// memoized per (plugin, from, to). Pre-authored guides registered in a
// GuideStore take precedence over synthesis.
//
// # Collaborators
//
// Changelog entries, plugin records, and pre-authored guides come from
// outside this package through the ChangelogProvider, Catalog, and GuideStore
// interfaces. pkg/registry carries in-memory implementations of all three.
//
// # Usage Example
//
//	detector := upgrade.NewDetector(changelog, versions, logger)
//	planner, err := upgrade.NewPlanner(versions, detector, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	analysis, err := planner.Plan("my-plugin", "1.2.0", "3.0.0")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Risk: %s, effort: %.1fh, steps: %d\n",
//		analysis.RiskLevel, analysis.EstimatedEffortHours, len(analysis.UpgradePath))
//
// # Related Packages
//
//   - pkg/version: Version parsing and bump classification
//   - pkg/registry: In-memory catalog, changelog, and guide stores
package upgrade
