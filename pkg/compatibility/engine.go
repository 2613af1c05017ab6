package compatibility

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/observability"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/performance"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/resolver"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// highImpactThreshold is the impact score above which a report recommends
// resource monitoring.
const highImpactThreshold = 4

// defaultCheckWorkers bounds CheckMany fan-out.
const defaultCheckWorkers = 4

// Recommendation messages. Reports carry these verbatim so they can be
// matched by callers and tests.
const (
	RecommendResolveCritical      = "Resolve critical compatibility issues before installation"
	RecommendConsiderAlternatives = "Consider alternative plugins with similar functionality"
	RecommendTestNonProduction    = "Test the plugin in a non-production environment before enabling it"
	RecommendMonitorResources     = "Monitor resource usage after installation: estimated performance impact is high"
	RecommendFullyCompatible      = "Plugin is fully compatible with the current system"
)

// Engine evaluates plugins against host facts using a fixed registry of
// rules. Each check is a pure function of its inputs plus the shared
// read-through parse cache, so a single Engine is safe for concurrent use.
type Engine struct {
	versions  *version.Cache
	resolver  *resolver.Resolver
	estimator *performance.Estimator
	rules     []Rule
	metrics   *observability.Metrics
	log       *logrus.Logger
	workers   int
}

// NewEngine creates an engine with the built-in rule registry. A nil logger
// falls back to logrus.New().
func NewEngine(versions *version.Cache, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		versions:  versions,
		resolver:  resolver.NewResolver(versions, log),
		estimator: performance.NewEstimator(),
		rules:     builtinRules(versions),
		log:       log,
		workers:   defaultCheckWorkers,
	}
}

// SetMetrics attaches a metrics sink. Optional; a nil sink disables
// instrumentation.
func (e *Engine) SetMetrics(m *observability.Metrics) {
	e.metrics = m
}

// SetWorkers bounds CheckMany concurrency. Values below 1 are ignored.
func (e *Engine) SetWorkers(n int) {
	if n >= 1 {
		e.workers = n
	}
}

// RegisterRule appends a custom rule to the registry. Custom rules run after
// the built-ins. Rule ids must be unique.
func (e *Engine) RegisterRule(rule Rule) error {
	if rule.ID == "" || rule.Run == nil {
		return fmt.Errorf("rule must have an id and a run function")
	}
	for _, existing := range e.rules {
		if existing.ID == rule.ID {
			return fmt.Errorf("rule already registered: %s", rule.ID)
		}
	}
	e.rules = append(e.rules, rule)
	return nil
}

// CheckPlugin evaluates every rule against the plugin and host facts and
// returns a best-effort report. Issue-level findings are data, not errors;
// only structurally invalid input (an unparsable plugin or host version)
// fails the call.
func (e *Engine) CheckPlugin(plugin *plugins.Plugin, sys *plugins.SystemInfo) (*Report, error) {
	if _, err := e.versions.Parse(plugin.Version); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", plugin.ID, err)
	}
	if sys.HostVersion != "" {
		if _, err := e.versions.Parse(sys.HostVersion); err != nil {
			return nil, fmt.Errorf("host version: %w", err)
		}
	}
	if sys.RuntimeVersion != "" {
		if _, err := e.versions.Parse(sys.RuntimeVersion); err != nil {
			return nil, fmt.Errorf("runtime version: %w", err)
		}
	}

	issues := make([]Issue, 0)
	for _, rule := range e.rules {
		found, err := e.runRule(rule, plugin, sys)
		if err != nil {
			// One bad rule must not hide the other findings.
			e.log.WithFields(logrus.Fields{
				"rule":   rule.ID,
				"plugin": plugin.ID,
			}).WithError(err).Warn("rule evaluation failed")
			issues = append(issues, Issue{
				Type:      issueTypeFor(rule.Category),
				Severity:  SeverityInfo,
				Component: rule.Name,
				Issue:     fmt.Sprintf("Rule %q could not be evaluated and was skipped", rule.Name),
				Suggestion: fmt.Sprintf(
					"Verify the metadata consumed by rule %s for plugin %s", rule.ID, plugin.ID),
			})
			continue
		}
		issues = append(issues, found...)
	}

	// Fixed output order regardless of rule registration order.
	sort.SliceStable(issues, func(i, j int) bool {
		return typeRank(issues[i].Type) < typeRank(issues[j].Type)
	})

	impact := e.estimator.Estimate(plugin)

	report := &Report{
		PluginID:          plugin.ID,
		Issues:            issues,
		PerformanceImpact: impact,
		SystemInfo:        *sys,
	}
	report.Compatible = report.CriticalCount() == 0
	report.Recommendations = e.recommendations(report)

	if e.metrics != nil {
		severities := make([]string, 0, len(issues))
		for _, issue := range issues {
			severities = append(severities, string(issue.Severity))
		}
		e.metrics.RecordCheck(report.Compatible, severities)
	}

	return report, nil
}

// CheckMany checks each plugin independently against the same host facts.
// Checks fan out across workers with no shared mutable state; one plugin's
// issues never affect another's report. Results are returned in input order.
func (e *Engine) CheckMany(list []*plugins.Plugin, sys *plugins.SystemInfo) ([]*Report, error) {
	reports := make([]*Report, len(list))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, plugin := range list {
		i, plugin := i, plugin
		g.Go(func() error {
			report, err := e.CheckPlugin(plugin, sys)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// ResolveConstraints resolves a set of version constraints against candidate
// versions. Exposed on the engine so callers hold a single entry point.
func (e *Engine) ResolveConstraints(constraints []resolver.Constraint, candidates []string) (*resolver.Result, error) {
	return e.resolver.Resolve(constraints, candidates)
}

// runRule executes one rule, converting panics into errors so a single
// broken rule cannot abort the whole check.
func (e *Engine) runRule(rule Rule, plugin *plugins.Plugin, sys *plugins.SystemInfo) (issues []Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID, r)
		}
	}()
	return rule.Run(plugin, sys)
}

// recommendations derives the human guidance attached to a report.
func (e *Engine) recommendations(report *Report) []string {
	recs := make([]string, 0, 2)

	criticals := report.CriticalCount()
	warnings := report.WarningCount()

	switch {
	case criticals > 0:
		recs = append(recs, RecommendResolveCritical, RecommendConsiderAlternatives)
	case warnings > 0:
		recs = append(recs, RecommendTestNonProduction)
	}

	if report.PerformanceImpact.ImpactScore > highImpactThreshold {
		recs = append(recs, RecommendMonitorResources)
	}

	if len(report.Issues) == 0 {
		recs = append(recs, RecommendFullyCompatible)
	}

	return recs
}
