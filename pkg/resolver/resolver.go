package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// Strategy describes how a recommended version was (or was not) selected.
type Strategy string

const (
	StrategyLatest     Strategy = "latest"
	StrategyLTS        Strategy = "lts"
	StrategyCompatible Strategy = "compatible"
	StrategyManual     Strategy = "manual"
)

// maxAlternatives bounds how many next-best candidates are offered for
// manual override.
const maxAlternatives = 3

// Constraint is a single version requirement expressed by one requester.
// Constraints are immutable and compared only by the versions they admit.
type Constraint struct {
	Range           string `json:"range" yaml:"range"`
	Source          string `json:"source" yaml:"source"`
	PreferLTS       bool   `json:"prefer_lts,omitempty" yaml:"prefer_lts,omitempty"`
	AllowPrerelease bool   `json:"allow_prerelease,omitempty" yaml:"allow_prerelease,omitempty"`
}

// ConflictPair names two constraints whose ranges admit no common version.
type ConflictPair struct {
	FirstSource  string `json:"first_source"`
	FirstRange   string `json:"first_range"`
	SecondSource string `json:"second_source"`
	SecondRange  string `json:"second_range"`
}

// Result is the outcome of resolving a constraint set against a candidate
// version list.
type Result struct {
	Satisfying   []string       `json:"satisfying_versions"`
	Recommended  string         `json:"recommended_version,omitempty"`
	Alternatives []string       `json:"alternative_versions,omitempty"`
	Conflicts    []ConflictPair `json:"conflicting_versions,omitempty"`
	Strategy     Strategy       `json:"resolution_strategy"`
}

// Resolver computes which candidate versions satisfy a set of competing
// constraints. It is stateless apart from the shared parse cache and safe for
// concurrent use.
type Resolver struct {
	versions *version.Cache
	log      *logrus.Logger
}

// NewResolver creates a resolver backed by the given parse cache.
func NewResolver(versions *version.Cache, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{
		versions: versions,
		log:      log,
	}
}

// exactPinPattern matches a bare "=1.2.3" clause; ">=", "<=", and "!=" do not
// count as pins.
var exactPinPattern = regexp.MustCompile(`(^|[\s,|])=\s*\d`)

// versionLiteralPattern extracts the version literals embedded in a range
// expression, used to probe range intersections.
var versionLiteralPattern = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// Resolve filters candidates down to those satisfying every constraint and
// selects a recommended version. When nothing satisfies the full set, each
// pair of constraints is tested for mutual exclusivity so the caller can see
// exactly which requirements collide.
//
// The result depends only on the constraint set and candidate list: inputs
// are walked in caller-supplied order and every sort is explicit.
func (r *Resolver) Resolve(constraints []Constraint, candidates []string) (*Result, error) {
	parsed := make([]*semver.Version, 0, len(candidates))
	for _, raw := range candidates {
		v, err := r.versions.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", raw, err)
		}
		parsed = append(parsed, v)
	}

	for _, c := range constraints {
		if _, err := r.versions.Range(c.Range); err != nil {
			return nil, fmt.Errorf("constraint from %q: %w", c.Source, err)
		}
	}

	satisfying := make([]*semver.Version, 0, len(parsed))
	for _, v := range parsed {
		ok, err := r.satisfiesAll(v, constraints)
		if err != nil {
			return nil, err
		}
		if ok {
			satisfying = append(satisfying, v)
		}
	}

	if len(satisfying) == 0 {
		conflicts := r.findConflicts(constraints, parsed)
		r.log.WithFields(logrus.Fields{
			"constraints": len(constraints),
			"candidates":  len(candidates),
			"conflicts":   len(conflicts),
		}).Debug("no candidate satisfies all constraints")

		return &Result{
			Satisfying: []string{},
			Conflicts:  conflicts,
			Strategy:   StrategyManual,
		}, nil
	}

	ordered := make([]*semver.Version, len(satisfying))
	copy(ordered, satisfying)
	sort.SliceStable(ordered, func(i, j int) bool {
		if cmp := version.Compare(ordered[i], ordered[j]); cmp != 0 {
			return cmp > 0
		}
		// Equal precedence (build metadata only): fall back to the
		// original string for a stable total order.
		return ordered[i].Original() > ordered[j].Original()
	})

	recommended := ordered[0]
	for _, v := range ordered {
		if version.IsStable(v) {
			recommended = v
			break
		}
	}

	alternatives := make([]string, 0, maxAlternatives)
	for _, v := range ordered {
		if v == recommended {
			continue
		}
		alternatives = append(alternatives, v.Original())
		if len(alternatives) == maxAlternatives {
			break
		}
	}

	result := &Result{
		Satisfying:   versionStrings(satisfying),
		Recommended:  recommended.Original(),
		Alternatives: alternatives,
		Strategy:     r.selectStrategy(constraints),
	}
	return result, nil
}

// satisfiesAll checks a candidate against every constraint, honoring each
// constraint's prerelease policy independently.
func (r *Resolver) satisfiesAll(v *semver.Version, constraints []Constraint) (bool, error) {
	for _, c := range constraints {
		ok, err := r.versions.SatisfiesVersion(v, c.Range, c.AllowPrerelease)
		if err != nil {
			return false, fmt.Errorf("constraint from %q: %w", c.Source, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// selectStrategy picks the resolution strategy for a satisfiable constraint
// set: lts wins over compatible wins over latest.
func (r *Resolver) selectStrategy(constraints []Constraint) Strategy {
	hasLTS := false
	hasPin := false
	for _, c := range constraints {
		if c.PreferLTS {
			hasLTS = true
		}
		if hasExactPin(c.Range) {
			hasPin = true
		}
	}

	switch {
	case hasLTS:
		return StrategyLTS
	case hasPin:
		return StrategyCompatible
	default:
		return StrategyLatest
	}
}

// findConflicts tests every constraint pair for mutual exclusivity. This is a
// pairwise range-intersection test, not full n-way reasoning: a pair is
// conflicting when no probe version satisfies both ranges.
func (r *Resolver) findConflicts(constraints []Constraint, candidates []*semver.Version) []ConflictPair {
	var conflicts []ConflictPair
	for i := 0; i < len(constraints); i++ {
		for j := i + 1; j < len(constraints); j++ {
			intersects, err := r.rangesIntersect(constraints[i], constraints[j], candidates)
			if err != nil {
				// Both ranges parsed during Resolve, so probing
				// cannot fail; skip the pair regardless.
				continue
			}
			if !intersects {
				conflicts = append(conflicts, ConflictPair{
					FirstSource:  constraints[i].Source,
					FirstRange:   constraints[i].Range,
					SecondSource: constraints[j].Source,
					SecondRange:  constraints[j].Range,
				})
			}
		}
	}
	return conflicts
}

// rangesIntersect probes whether two ranges share at least one version. The
// probe set is every version literal appearing in either expression plus its
// major/minor/patch bumps, plus the candidate list.
func (r *Resolver) rangesIntersect(a, b Constraint, candidates []*semver.Version) (bool, error) {
	probes := make([]*semver.Version, 0, len(candidates)+12)
	probes = append(probes, candidates...)

	for _, expr := range []string{a.Range, b.Range} {
		for _, literal := range versionLiteralPattern.FindAllString(expr, -1) {
			v, err := semver.NewVersion(literal)
			if err != nil {
				continue
			}
			major := v.IncMajor()
			minor := v.IncMinor()
			patch := v.IncPatch()
			probes = append(probes, v, &major, &minor, &patch)
		}
	}

	for _, probe := range probes {
		inA, err := r.versions.SatisfiesVersion(probe, a.Range, a.AllowPrerelease)
		if err != nil {
			return false, err
		}
		inB, err := r.versions.SatisfiesVersion(probe, b.Range, b.AllowPrerelease)
		if err != nil {
			return false, err
		}
		if inA && inB {
			return true, nil
		}
	}
	return false, nil
}

func versionStrings(versions []*semver.Version) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Original())
	}
	return out
}

// hasExactPin reports whether the range contains a bare exact-pin clause.
func hasExactPin(rangeExpr string) bool {
	return exactPinPattern.MatchString(strings.TrimSpace(rangeExpr))
}
