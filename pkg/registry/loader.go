package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/upgrade"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// CatalogFile is the on-disk YAML shape for seeding a registry: plugin
// records, extra published versions, per-plugin changelogs, and pre-authored
// migration guides.
type CatalogFile struct {
	Plugins    []*plugins.Plugin                   `yaml:"plugins"`
	Versions   map[string][]string                 `yaml:"versions,omitempty"`
	Changelogs map[string][]upgrade.ChangelogEntry `yaml:"changelogs,omitempty"`
	Guides     []GuideRecord                       `yaml:"guides,omitempty"`
}

// GuideRecord binds a pre-authored guide to a plugin's major transition.
type GuideRecord struct {
	PluginID  string                  `yaml:"plugin_id"`
	FromMajor uint64                  `yaml:"from_major"`
	ToMajor   uint64                  `yaml:"to_major"`
	Guide     *upgrade.MigrationGuide `yaml:"guide"`
}

// Load reads a catalog file and builds a fully-populated registry.
func Load(path string, parser *version.Cache) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	reg := New(parser)
	for _, plugin := range file.Plugins {
		if err := reg.Register(plugin); err != nil {
			return nil, err
		}
	}
	for id, versions := range file.Versions {
		for _, v := range versions {
			if err := reg.AddVersion(id, v); err != nil {
				return nil, err
			}
		}
	}
	for id, entries := range file.Changelogs {
		for _, entry := range entries {
			if err := reg.AddChangelog(id, entry); err != nil {
				return nil, err
			}
		}
	}
	for _, record := range file.Guides {
		if err := reg.AddGuide(record.PluginID, record.FromMajor, record.ToMajor, record.Guide); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
