// Package compatibility evaluates whether plugins can run against a host system.
//
// # Overview
//
// This package runs an ordered set of compatibility rules over a plugin
// manifest and a set of system facts, producing a report of issues graded by
// severity together with a performance impact estimate and actionable
// recommendations.
//
// # Rule Engine
//
// Rule: A named predicate over (Plugin, SystemInfo) producing issues
// Engine: Runs the built-in rules plus any registered custom rules
// Report: Issue list ordered by category, impact estimate, recommendations
//
// Rules are grouped into categories evaluated in a fixed order: host version,
// runtime version, system facts (OS, architecture), resources (memory, CPU),
// and plugin-to-plugin constraints. A rule that panics is skipped and reported
// as an info-severity issue; the remaining rules still run.
//
// # Severity
//
// critical: The plugin cannot be installed (Compatible is false)
// warning: The plugin installs but something deserves attention
// info: Advisory only
//
// # Usage Example
//
// Check one plugin:
//
//	engine := compatibility.NewEngine(versions, logger)
//	report, err := engine.CheckPlugin(plugin, systemInfo)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Compatible: %v, issues: %d\n", report.Compatible, len(report.Issues))
//
// Check a batch concurrently:
//
//	reports, err := engine.CheckMany(pluginList, systemInfo)
//
// # Related Packages
//
//   - pkg/version: Semantic version parsing and range matching
//   - pkg/performance: Impact estimation included in each report
//   - pkg/resolver: Constraint resolution exposed via ResolveConstraints
package compatibility
