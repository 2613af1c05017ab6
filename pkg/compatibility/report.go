package compatibility

import (
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/performance"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
)

// Severity indicates how strongly an issue affects installability
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// IssueType groups issues by the kind of requirement they violate
type IssueType string

const (
	IssueTypeVersion     IssueType = "version"
	IssueTypeSystem      IssueType = "system"
	IssueTypeResource    IssueType = "resource"
	IssueTypePerformance IssueType = "performance"
	IssueTypePlugin      IssueType = "plugin"
)

// typeRank fixes the order issues appear in a report: version, system,
// resource, performance, plugin. Output order must not depend on map
// iteration or rule registration accidents.
func typeRank(t IssueType) int {
	switch t {
	case IssueTypeVersion:
		return 0
	case IssueTypeSystem:
		return 1
	case IssueTypeResource:
		return 2
	case IssueTypePerformance:
		return 3
	case IssueTypePlugin:
		return 4
	}
	return 5
}

// Issue is a single discrete finding that a plugin/host combination violates
// or risks violating a requirement. Issues are produced by the rule engine
// and never mutated; the report is their sole owner.
type Issue struct {
	Type          IssueType `json:"type"`
	Severity      Severity  `json:"severity"`
	Component     string    `json:"component"`
	Issue         string    `json:"issue"`
	CurrentValue  string    `json:"current_value,omitempty"`
	RequiredValue string    `json:"required_value,omitempty"`
	Suggestion    string    `json:"suggestion"`
	AutoFixable   bool      `json:"auto_fixable"`
}

// Report is the outcome of checking one plugin against one host. It is
// created fresh per check and never persisted by the engine.
type Report struct {
	PluginID          string             `json:"plugin_id"`
	Compatible        bool               `json:"compatible"`
	Issues            []Issue            `json:"issues"`
	PerformanceImpact performance.Impact `json:"performance_impact"`
	Recommendations   []string           `json:"recommendations"`
	SystemInfo        plugins.SystemInfo `json:"system_info"`
}

// CriticalCount returns the number of critical issues in the report.
func (r *Report) CriticalCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning issues in the report.
func (r *Report) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}
