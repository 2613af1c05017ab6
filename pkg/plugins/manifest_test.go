package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

const sampleManifest = `
id: catalog-graph
name: Catalog Graph
version: 1.4.0
type: frontend
host_version_range: "^2.0.0"
dependencies:
  - id: catalog-backend
    version_range: "^3.1.0"
    scope: runtime
  - id: search-backend
    version_range: ">=1.0.0 <2.0.0"
    optional: true
incompatible_with:
  - legacy-graph
requirements:
  runtime_version_range: ">=18.0.0"
  operating_systems: [linux, darwin]
  memory_mb: 256
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	plugin, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "catalog-graph", plugin.ID)
	assert.Equal(t, PluginTypeFrontend, plugin.Type)
	assert.Equal(t, "^2.0.0", plugin.HostVersionRange)
	require.Len(t, plugin.Dependencies, 2)
	assert.Equal(t, ScopeRuntime, plugin.Dependencies[0].Scope)
	assert.True(t, plugin.Dependencies[1].Optional)
	assert.Equal(t, []string{"legacy-graph"}, plugin.IncompatibleWith)
	assert.Equal(t, 256, plugin.Requirements.MemoryMB)
}

func TestLoadManifestFromDir(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	plugin, err := LoadManifestFromDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "catalog-graph", plugin.ID)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveManifest_RoundTrip(t *testing.T) {
	plugin := &Plugin{
		ID:      "auth-provider",
		Name:    "Auth Provider",
		Version: "2.0.1",
		Type:    PluginTypeBackend,
	}

	path := filepath.Join(t.TempDir(), "plugin.yaml")
	require.NoError(t, SaveManifest(plugin, path))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, plugin, loaded)
}

func TestValidateManifest(t *testing.T) {
	versions := version.MustCache()

	tests := []struct {
		name       string
		plugin     *Plugin
		wantFields []string
	}{
		{
			name: "valid plugin",
			plugin: &Plugin{
				ID:               "a",
				Name:             "A",
				Version:          "1.0.0",
				Type:             PluginTypeBackend,
				HostVersionRange: "^2.0.0",
			},
		},
		{
			name:       "missing everything",
			plugin:     &Plugin{},
			wantFields: []string{"id", "name", "version", "type"},
		},
		{
			name: "bad version",
			plugin: &Plugin{
				ID: "a", Name: "A", Version: "one.two", Type: PluginTypeCore,
			},
			wantFields: []string{"version"},
		},
		{
			name: "bad host range",
			plugin: &Plugin{
				ID: "a", Name: "A", Version: "1.0.0", Type: PluginTypeCore,
				HostVersionRange: ">>bad<<",
			},
			wantFields: []string{"host_version_range"},
		},
		{
			name: "bad dependency",
			plugin: &Plugin{
				ID: "a", Name: "A", Version: "1.0.0", Type: PluginTypeCore,
				Dependencies: []Dependency{{VersionRange: "!!"}},
			},
			wantFields: []string{"dependencies[0].id", "dependencies[0].version_range"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateManifest(tt.plugin, versions)

			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestSystemInfo_HasPlugin(t *testing.T) {
	sys := &SystemInfo{InstalledPlugins: []string{"a", "b"}}

	assert.True(t, sys.HasPlugin("a"))
	assert.False(t, sys.HasPlugin("c"))
}
