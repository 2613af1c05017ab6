package compatibility

import (
	"sort"
	"testing"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

func TestRangeFloor(t *testing.T) {
	tests := []struct {
		expr string
		want string // "" means no floor
	}{
		{"^2.0.0", "2.0.0"},
		{"~1.4.2", "1.4.2"},
		{">=3.1.0 <4.0.0", "3.1.0"},
		{"1.2.0 - 1.9.0", "1.2.0"},
		{"2.x", "2.0.0"},
		{"*", ""},
	}

	for _, tt := range tests {
		floor := rangeFloor(tt.expr)
		if tt.want == "" {
			if floor != nil {
				t.Errorf("rangeFloor(%q) = %v, want nil", tt.expr, floor)
			}
			continue
		}
		if floor == nil || floor.String() != tt.want {
			t.Errorf("rangeFloor(%q) = %v, want %s", tt.expr, floor, tt.want)
		}
	}
}

func TestIssueOrdering(t *testing.T) {
	issues := []Issue{
		{Type: IssueTypePlugin, Component: "dep"},
		{Type: IssueTypeResource, Component: "Memory"},
		{Type: IssueTypeVersion, Component: "Host"},
		{Type: IssueTypeSystem, Component: "Operating System"},
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return typeRank(issues[i].Type) < typeRank(issues[j].Type)
	})

	want := []IssueType{IssueTypeVersion, IssueTypeSystem, IssueTypeResource, IssueTypePlugin}
	for i, issue := range issues {
		if issue.Type != want[i] {
			t.Errorf("position %d: got %s, want %s", i, issue.Type, want[i])
		}
	}
}

func TestBuiltinRules_SkipWhenUndeclared(t *testing.T) {
	// A plugin that declares nothing must produce no issues against an
	// empty system: absence means "no constraint".
	plugin := &plugins.Plugin{ID: "bare", Version: "1.0.0", Type: plugins.PluginTypeCore}
	sys := &plugins.SystemInfo{}

	for _, rule := range builtinRules(version.MustCache()) {
		issues, err := rule.Run(plugin, sys)
		if err != nil {
			t.Fatalf("rule %s: unexpected error %v", rule.ID, err)
		}
		if len(issues) != 0 {
			t.Errorf("rule %s emitted %d issues for an unconstrained plugin", rule.ID, len(issues))
		}
	}
}

func TestCPURule(t *testing.T) {
	plugin := &plugins.Plugin{
		ID: "x", Version: "1.0.0", Type: plugins.PluginTypeBackend,
		Requirements: plugins.SystemRequirements{CPUCores: 4},
	}
	sys := &plugins.SystemInfo{CPUCores: 2}

	issues, err := cpuRule(plugin, sys)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %d", len(issues))
	}
	if issues[0].Severity != SeverityWarning {
		t.Errorf("cpu shortfall should warn, got %s", issues[0].Severity)
	}
	if issues[0].CurrentValue != "2 cores" || issues[0].RequiredValue != "4 cores" {
		t.Errorf("unexpected values: %q / %q", issues[0].CurrentValue, issues[0].RequiredValue)
	}
}
