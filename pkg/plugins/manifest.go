package plugins

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// LoadManifest loads and parses a plugin descriptor from a file
func LoadManifest(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var plugin Plugin
	if err := yaml.Unmarshal(data, &plugin); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &plugin, nil
}

// LoadManifestFromDir loads a plugin descriptor from a directory (looks for plugin.yaml)
func LoadManifestFromDir(dir string) (*Plugin, error) {
	return LoadManifest(filepath.Join(dir, "plugin.yaml"))
}

// SaveManifest saves a plugin descriptor to a file
func SaveManifest(plugin *Plugin, path string) error {
	data, err := yaml.Marshal(plugin)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ValidationError represents a manifest validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateManifest performs structural validation on a plugin descriptor.
// Version strings and ranges are parsed through the shared version cache so
// the same grammar applies everywhere.
func ValidateManifest(plugin *Plugin, versions *version.Cache) []ValidationError {
	var errors []ValidationError

	if plugin.ID == "" {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "Plugin ID is required",
		})
	}

	if plugin.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "Plugin name is required",
		})
	}

	if plugin.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: "Version is required",
		})
	} else if _, err := versions.Parse(plugin.Version); err != nil {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("Invalid semver format: %s", plugin.Version),
		})
	}

	if !plugin.Type.Valid() {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("Invalid plugin type: %s", plugin.Type),
		})
	}

	if plugin.HostVersionRange != "" {
		if _, err := versions.Range(plugin.HostVersionRange); err != nil {
			errors = append(errors, ValidationError{
				Field:   "host_version_range",
				Message: fmt.Sprintf("Invalid version range: %s", plugin.HostVersionRange),
			})
		}
	}

	for i, dep := range plugin.Dependencies {
		if dep.ID == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("dependencies[%d].id", i),
				Message: "Dependency ID is required",
			})
		}
		if dep.VersionRange != "" {
			if _, err := versions.Range(dep.VersionRange); err != nil {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("dependencies[%d].version_range", i),
					Message: fmt.Sprintf("Invalid version range: %s", dep.VersionRange),
				})
			}
		}
	}

	return errors
}
