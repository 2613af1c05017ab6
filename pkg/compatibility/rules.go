package compatibility

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// Category groups rules by the subsystem they inspect
type Category string

const (
	CategoryHost    Category = "host"
	CategoryRuntime Category = "runtime"
	CategorySystem  Category = "system"
	CategoryPlugins Category = "plugins"
)

// Rule is a named check over a plugin descriptor and the host facts. Running
// a rule yields zero or more issues; most rules yield at most one. Rules hold
// no state of their own, so the same registry is safe across concurrent
// checks.
type Rule struct {
	ID       string
	Name     string
	Category Category
	Run      func(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error)
}

// issueTypeFor maps a rule category to the issue type used when the rule
// itself fails to evaluate.
func issueTypeFor(c Category) IssueType {
	switch c {
	case CategoryHost, CategoryRuntime:
		return IssueTypeVersion
	case CategorySystem:
		return IssueTypeSystem
	case CategoryPlugins:
		return IssueTypePlugin
	}
	return IssueTypeSystem
}

// ltsRuntimeMajors is the set of runtime major versions with long-term
// support. Running outside it is informational, never blocking.
var ltsRuntimeMajors = map[uint64]bool{18: true, 20: true, 22: true}

// rangeFloorPattern pulls the first version literal out of a range
// expression, which is the declared floor for ^/~/>= style ranges.
var rangeFloorPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// rangeFloor parses the base version literal of a range expression. Returns
// nil when the expression carries no literal (e.g. "*").
func rangeFloor(expr string) *semver.Version {
	literal := rangeFloorPattern.FindString(expr)
	if literal == "" {
		return nil
	}
	v, err := semver.NewVersion(literal)
	if err != nil {
		return nil
	}
	return v
}

// builtinRules returns the engine's rule registry in evaluation order. The
// order matches the fixed issue-type order of reports: host and runtime
// (version), operating system and architecture (system), memory and CPU
// (resource), conflicts and dependencies (plugin).
func builtinRules(versions *version.Cache) []Rule {
	return []Rule{
		{
			ID:       "host-version",
			Name:     "Host version compatibility",
			Category: CategoryHost,
			Run:      hostVersionRule(versions),
		},
		{
			ID:       "runtime-version",
			Name:     "Runtime version requirement",
			Category: CategoryRuntime,
			Run:      runtimeVersionRule(versions),
		},
		{
			ID:       "runtime-lts",
			Name:     "Runtime LTS support",
			Category: CategoryRuntime,
			Run:      runtimeLTSRule(versions),
		},
		{
			ID:       "operating-system",
			Name:     "Operating system support",
			Category: CategorySystem,
			Run:      operatingSystemRule,
		},
		{
			ID:       "architecture",
			Name:     "CPU architecture support",
			Category: CategorySystem,
			Run:      architectureRule,
		},
		{
			ID:       "memory",
			Name:     "Available memory",
			Category: CategorySystem,
			Run:      memoryRule,
		},
		{
			ID:       "cpu-cores",
			Name:     "Available CPU cores",
			Category: CategorySystem,
			Run:      cpuRule,
		},
		{
			ID:       "plugin-conflicts",
			Name:     "Installed plugin conflicts",
			Category: CategoryPlugins,
			Run:      conflictRule,
		},
		{
			ID:       "plugin-dependencies",
			Name:     "Required plugin dependencies",
			Category: CategoryPlugins,
			Run:      dependencyRule,
		},
	}
}

// hostVersionRule checks the plugin's declared host range against the actual
// host version. A major-version mismatch blocks installation; a host merely
// below the declared minor floor may still run, degraded.
func hostVersionRule(versions *version.Cache) func(*plugins.Plugin, *plugins.SystemInfo) ([]Issue, error) {
	return func(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
		if plugin.HostVersionRange == "" || sys.HostVersion == "" {
			return nil, nil
		}

		host, err := versions.Parse(sys.HostVersion)
		if err != nil {
			return nil, err
		}
		ok, err := versions.SatisfiesVersion(host, plugin.HostVersionRange, false)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, nil
		}

		severity := SeverityWarning
		floor := rangeFloor(plugin.HostVersionRange)
		if floor == nil || host.Major() != floor.Major() {
			severity = SeverityCritical
		}

		return []Issue{{
			Type:          IssueTypeVersion,
			Severity:      severity,
			Component:     "Host",
			Issue:         fmt.Sprintf("Host version %s does not satisfy required range %s", sys.HostVersion, plugin.HostVersionRange),
			CurrentValue:  sys.HostVersion,
			RequiredValue: plugin.HostVersionRange,
			Suggestion:    fmt.Sprintf("Upgrade the host platform to a version within %s", plugin.HostVersionRange),
		}}, nil
	}
}

// runtimeVersionRule checks the declared runtime range. A runtime below the
// declared minimum blocks installation.
func runtimeVersionRule(versions *version.Cache) func(*plugins.Plugin, *plugins.SystemInfo) ([]Issue, error) {
	return func(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
		required := plugin.Requirements.RuntimeVersionRange
		if required == "" || sys.RuntimeVersion == "" {
			return nil, nil
		}

		runtime, err := versions.Parse(sys.RuntimeVersion)
		if err != nil {
			return nil, err
		}
		ok, err := versions.SatisfiesVersion(runtime, required, false)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, nil
		}

		return []Issue{{
			Type:          IssueTypeVersion,
			Severity:      SeverityCritical,
			Component:     "Runtime",
			Issue:         fmt.Sprintf("Runtime version %s does not satisfy required range %s", sys.RuntimeVersion, required),
			CurrentValue:  sys.RuntimeVersion,
			RequiredValue: required,
			Suggestion:    fmt.Sprintf("Upgrade the runtime to a version within %s", required),
		}}, nil
	}
}

// runtimeLTSRule flags runtimes outside the supported LTS majors. This never
// blocks installation.
func runtimeLTSRule(versions *version.Cache) func(*plugins.Plugin, *plugins.SystemInfo) ([]Issue, error) {
	return func(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
		if sys.RuntimeVersion == "" {
			return nil, nil
		}

		runtime, err := versions.Parse(sys.RuntimeVersion)
		if err != nil {
			return nil, err
		}
		if ltsRuntimeMajors[runtime.Major()] {
			return nil, nil
		}

		return []Issue{{
			Type:         IssueTypeVersion,
			Severity:     SeverityWarning,
			Component:    "Runtime",
			Issue:        fmt.Sprintf("Runtime major version %d is outside the supported LTS set", runtime.Major()),
			CurrentValue: sys.RuntimeVersion,
			Suggestion:   "Use an LTS runtime (major 18, 20, or 22) for long-term support",
		}}, nil
	}
}

func operatingSystemRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	supported := plugin.Requirements.OperatingSystems
	if len(supported) == 0 || sys.OperatingSystem == "" {
		return nil, nil
	}

	for _, os := range supported {
		if strings.EqualFold(os, sys.OperatingSystem) {
			return nil, nil
		}
	}

	return []Issue{{
		Type:          IssueTypeSystem,
		Severity:      SeverityCritical,
		Component:     "Operating System",
		Issue:         fmt.Sprintf("Operating system %s is not supported by this plugin", sys.OperatingSystem),
		CurrentValue:  sys.OperatingSystem,
		RequiredValue: strings.Join(supported, ", "),
		Suggestion:    fmt.Sprintf("Install on one of the supported operating systems: %s", strings.Join(supported, ", ")),
	}}, nil
}

func architectureRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	supported := plugin.Requirements.Architectures
	if len(supported) == 0 || sys.Architecture == "" {
		return nil, nil
	}

	for _, arch := range supported {
		if strings.EqualFold(arch, sys.Architecture) {
			return nil, nil
		}
	}

	return []Issue{{
		Type:          IssueTypeSystem,
		Severity:      SeverityCritical,
		Component:     "Architecture",
		Issue:         fmt.Sprintf("CPU architecture %s is not supported by this plugin", sys.Architecture),
		CurrentValue:  sys.Architecture,
		RequiredValue: strings.Join(supported, ", "),
		Suggestion:    fmt.Sprintf("Install on one of the supported architectures: %s", strings.Join(supported, ", ")),
	}}, nil
}

// memoryRule warns when available memory is below the declared requirement.
// The plugin may still run, degraded, so this never blocks.
func memoryRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	required := plugin.Requirements.MemoryMB
	if required <= 0 || sys.AvailableMemoryMB <= 0 || sys.AvailableMemoryMB >= required {
		return nil, nil
	}

	return []Issue{{
		Type:          IssueTypeResource,
		Severity:      SeverityWarning,
		Component:     "Memory",
		Issue:         fmt.Sprintf("Available memory %dMB is below the required %dMB", sys.AvailableMemoryMB, required),
		CurrentValue:  fmt.Sprintf("%dMB", sys.AvailableMemoryMB),
		RequiredValue: fmt.Sprintf("%dMB", required),
		Suggestion:    fmt.Sprintf("Free up memory or increase the host allocation to at least %dMB", required),
	}}, nil
}

func cpuRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	required := plugin.Requirements.CPUCores
	if required <= 0 || sys.CPUCores <= 0 || sys.CPUCores >= required {
		return nil, nil
	}

	return []Issue{{
		Type:          IssueTypeResource,
		Severity:      SeverityWarning,
		Component:     "CPU",
		Issue:         fmt.Sprintf("Available CPU cores (%d) are below the required %d", sys.CPUCores, required),
		CurrentValue:  fmt.Sprintf("%d cores", sys.CPUCores),
		RequiredValue: fmt.Sprintf("%d cores", required),
		Suggestion:    fmt.Sprintf("Provision at least %d CPU cores for this plugin", required),
	}}, nil
}

// conflictRule blocks installation when a declared-incompatible plugin is
// already installed on the host.
func conflictRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	var issues []Issue
	for _, incompatible := range plugin.IncompatibleWith {
		if !sys.HasPlugin(incompatible) {
			continue
		}
		issues = append(issues, Issue{
			Type:         IssueTypePlugin,
			Severity:     SeverityCritical,
			Component:    incompatible,
			Issue:        fmt.Sprintf("Installed plugin %s is incompatible with %s", incompatible, plugin.ID),
			CurrentValue: "installed",
			Suggestion:   fmt.Sprintf("Uninstall %s before installing %s", incompatible, plugin.ID),
		})
	}
	return issues, nil
}

// dependencyRule blocks installation when a required dependency is missing.
// The remediation is mechanical (install the dependency), so the issue is
// auto-fixable.
func dependencyRule(plugin *plugins.Plugin, sys *plugins.SystemInfo) ([]Issue, error) {
	var issues []Issue
	for _, dep := range plugin.Dependencies {
		if dep.Optional || sys.HasPlugin(dep.ID) {
			continue
		}

		required := dep.ID
		if dep.VersionRange != "" {
			required = fmt.Sprintf("%s@%s", dep.ID, dep.VersionRange)
		}
		issues = append(issues, Issue{
			Type:          IssueTypePlugin,
			Severity:      SeverityCritical,
			Component:     dep.ID,
			Issue:         fmt.Sprintf("Required dependency %s is not installed", dep.ID),
			CurrentValue:  "missing",
			RequiredValue: required,
			Suggestion:    fmt.Sprintf("Install %s before installing %s", required, plugin.ID),
			AutoFixable:   true,
		})
	}
	return issues, nil
}
