// Package registry holds in-memory stores for the collaborator data the
// compatibility engine and upgrade planner consume: plugin records with their
// published versions, per-plugin changelog entries, and pre-authored
// migration guides. All stores are safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/upgrade"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// Registry is an in-memory plugin catalog, changelog provider, and migration
// guide store. It satisfies upgrade.Catalog, upgrade.ChangelogProvider, and
// upgrade.GuideStore.
type Registry struct {
	mu         sync.RWMutex
	plugins    map[string]*plugins.Plugin
	versions   map[string][]string
	changelogs map[string][]upgrade.ChangelogEntry
	guides     map[string]*upgrade.MigrationGuide

	parser *version.Cache
}

// New creates an empty registry backed by the given version cache.
func New(parser *version.Cache) *Registry {
	return &Registry{
		plugins:    make(map[string]*plugins.Plugin),
		versions:   make(map[string][]string),
		changelogs: make(map[string][]upgrade.ChangelogEntry),
		guides:     make(map[string]*upgrade.MigrationGuide),
		parser:     parser,
	}
}

// Register adds a plugin record. The plugin's own version is recorded as a
// published version. Registering an already-known ID is an error.
func (r *Registry) Register(plugin *plugins.Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	if plugin.ID == "" {
		return fmt.Errorf("plugin has empty ID")
	}
	if _, err := r.parser.Parse(plugin.Version); err != nil {
		return fmt.Errorf("plugin %s: %w", plugin.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[plugin.ID]; exists {
		return fmt.Errorf("plugin already registered: %s", plugin.ID)
	}

	r.plugins[plugin.ID] = plugin
	r.versions[plugin.ID] = insertVersion(r.versions[plugin.ID], plugin.Version, r.parser)
	return nil
}

// Unregister removes a plugin record and its published versions.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; !exists {
		return fmt.Errorf("plugin not found: %s", id)
	}

	delete(r.plugins, id)
	delete(r.versions, id)
	delete(r.changelogs, id)
	return nil
}

// AddVersion records an additional published version for a plugin.
func (r *Registry) AddVersion(id, raw string) error {
	if _, err := r.parser.Parse(raw); err != nil {
		return fmt.Errorf("plugin %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; !exists {
		return fmt.Errorf("plugin not found: %s", id)
	}
	r.versions[id] = insertVersion(r.versions[id], raw, r.parser)
	return nil
}

// AddChangelog records the changelog entry for one release of a plugin.
func (r *Registry) AddChangelog(id string, entry upgrade.ChangelogEntry) error {
	if _, err := r.parser.Parse(entry.Version); err != nil {
		return fmt.Errorf("changelog for %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.changelogs[id] = append(r.changelogs[id], entry)
	return nil
}

// AddGuide registers a pre-authored migration guide for a plugin's
// major-to-major transition.
func (r *Registry) AddGuide(id string, fromMajor, toMajor uint64, guide *upgrade.MigrationGuide) error {
	if guide == nil {
		return fmt.Errorf("cannot register nil guide")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.guides[upgrade.GuideKey(id, fromMajor, toMajor)] = guide
	return nil
}

// Plugin retrieves a plugin record by ID.
func (r *Registry) Plugin(id string) (*plugins.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, exists := r.plugins[id]
	return plugin, exists
}

// Versions returns the published versions of a plugin, ascending.
func (r *Registry) Versions(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := r.versions[id]
	out := make([]string, len(known))
	copy(out, known)
	return out
}

// List returns all registered plugins, ordered by ID.
func (r *Registry) List() []*plugins.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*plugins.Plugin, 0, len(r.plugins))
	for _, plugin := range r.plugins {
		result = append(result, plugin)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// Entries returns the changelog entries for versions in (from, to], ordered
// ascending by version.
func (r *Registry) Entries(pluginID string, from, to *semver.Version) ([]upgrade.ChangelogEntry, error) {
	r.mu.RLock()
	known := r.changelogs[pluginID]
	r.mu.RUnlock()

	selected := make([]upgrade.ChangelogEntry, 0, len(known))
	for _, entry := range known {
		v, err := r.parser.Parse(entry.Version)
		if err != nil {
			return nil, fmt.Errorf("changelog for %s: %w", pluginID, err)
		}
		if v.GreaterThan(from) && !v.GreaterThan(to) {
			selected = append(selected, entry)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		vi, _ := r.parser.Parse(selected[i].Version)
		vj, _ := r.parser.Parse(selected[j].Version)
		return vi.LessThan(vj)
	})
	return selected, nil
}

// Guide retrieves a pre-authored migration guide by key.
func (r *Registry) Guide(key string) (*upgrade.MigrationGuide, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guide, exists := r.guides[key]
	return guide, exists
}

// insertVersion adds raw to the sorted version list, skipping duplicates.
// Callers have already validated raw against the parser.
func insertVersion(known []string, raw string, parser *version.Cache) []string {
	for _, v := range known {
		if v == raw {
			return known
		}
	}
	known = append(known, raw)
	sort.SliceStable(known, func(i, j int) bool {
		vi, _ := parser.Parse(known[i])
		vj, _ := parser.Parse(known[j])
		return vi.LessThan(vj)
	})
	return known
}
