// Package version wraps semantic version parsing and range matching with an
// LRU-backed memoizing cache.
package version

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrInvalidVersion indicates a string that does not follow the
	// major.minor.patch[-prerelease][+build] grammar.
	ErrInvalidVersion = errors.New("invalid semantic version")
	// ErrInvalidRange indicates an unparsable range expression.
	ErrInvalidRange = errors.New("invalid version range")
)

// DefaultCacheSize bounds the parse caches. Version strings come from plugin
// catalogs, not user input at scale, but the cap keeps memory bounded under
// adversarial input.
const DefaultCacheSize = 4096

// BumpKind identifies which component of a version changes.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// Cache parses semantic versions and range expressions, memoizing results in
// bounded LRU caches. Parsed values are immutable, so a single Cache is safe
// to share across concurrent callers.
type Cache struct {
	versions *lru.Cache[string, *semver.Version]
	ranges   *lru.Cache[string, *semver.Constraints]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates a version cache. A size <= 0 selects DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	versions, err := lru.New[string, *semver.Version](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create version cache: %w", err)
	}
	ranges, err := lru.New[string, *semver.Constraints](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create range cache: %w", err)
	}

	return &Cache{
		versions: versions,
		ranges:   ranges,
	}, nil
}

// MustCache creates a default-sized cache and panics on failure. LRU creation
// only fails on a non-positive size, which NewCache normalizes first.
func MustCache() *Cache {
	c, err := NewCache(DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse parses a strict semantic version string. The full semver grammar is
// accepted, including prerelease and build metadata; partial versions such as
// "1.2" and a leading "v" are rejected.
func (c *Cache) Parse(raw string) (*semver.Version, error) {
	if v, ok := c.versions.Get(raw); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}

	c.versions.Add(raw, v)
	return v, nil
}

// Range parses a range expression (comparators, ^, ~, hyphen ranges,
// x/* wildcards, comma-separated conjunctions, ||-separated alternatives).
func (c *Cache) Range(expr string) (*semver.Constraints, error) {
	if r, ok := c.ranges.Get(expr); ok {
		c.hits.Add(1)
		return r, nil
	}
	c.misses.Add(1)

	r, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, expr, err)
	}

	c.ranges.Add(expr, r)
	return r, nil
}

// Satisfies reports whether the version string satisfies the range
// expression. Build metadata never participates in the comparison.
func (c *Cache) Satisfies(raw, expr string) (bool, error) {
	v, err := c.Parse(raw)
	if err != nil {
		return false, err
	}
	return c.SatisfiesVersion(v, expr, false)
}

// SatisfiesVersion checks an already-parsed version against a range
// expression. When allowPrerelease is set, a prerelease candidate is checked
// with its prerelease identifiers stripped so that ranges written for stable
// versions still admit it (node-semver "includePrerelease" behavior).
func (c *Cache) SatisfiesVersion(v *semver.Version, expr string, allowPrerelease bool) (bool, error) {
	r, err := c.Range(expr)
	if err != nil {
		return false, err
	}

	if allowPrerelease && v.Prerelease() != "" {
		stripped, err := v.SetPrerelease("")
		if err != nil {
			return false, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, v.Original(), err)
		}
		return r.Check(&stripped), nil
	}

	return r.Check(v), nil
}

// Stats returns the cumulative cache hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Compare orders two versions by semver precedence: -1 if a < b, 0 if equal,
// 1 if a > b. Prerelease versions sort below their stable counterpart; build
// metadata is ignored.
func Compare(a, b *semver.Version) int {
	return a.Compare(b)
}

// IsStable reports whether the version carries no prerelease identifiers.
func IsStable(v *semver.Version) bool {
	return v.Prerelease() == ""
}

// Increment bumps the version by the given kind. Minor and patch bumps reset
// the lower fields and clear any prerelease identifiers.
func Increment(v *semver.Version, kind BumpKind) (*semver.Version, error) {
	var next semver.Version
	switch kind {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	case BumpPatch:
		next = v.IncPatch()
	default:
		return nil, fmt.Errorf("unknown bump kind: %q", kind)
	}
	return &next, nil
}

// BumpBetween classifies the jump from one version to a strictly greater one.
func BumpBetween(from, to *semver.Version) BumpKind {
	switch {
	case to.Major() != from.Major():
		return BumpMajor
	case to.Minor() != from.Minor():
		return BumpMinor
	default:
		return BumpPatch
	}
}
