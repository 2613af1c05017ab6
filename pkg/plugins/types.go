// Package plugins defines plugin manifests, dependency declarations, and the
// system facts compatibility checks run against.
package plugins

// PluginType defines the category of plugin
type PluginType string

const (
	PluginTypeCore        PluginType = "core"
	PluginTypeFrontend    PluginType = "frontend"
	PluginTypeBackend     PluginType = "backend"
	PluginTypeExtension   PluginType = "extension"
	PluginTypeIntegration PluginType = "integration"
)

// Valid reports whether the type is one of the known categories.
func (t PluginType) Valid() bool {
	switch t {
	case PluginTypeCore, PluginTypeFrontend, PluginTypeBackend, PluginTypeExtension, PluginTypeIntegration:
		return true
	}
	return false
}

// DependencyScope defines when a plugin dependency is needed
type DependencyScope string

const (
	ScopeRuntime     DependencyScope = "runtime"
	ScopeDevelopment DependencyScope = "development"
	ScopePeer        DependencyScope = "peer"
)

// Dependency declares that a plugin requires another plugin
type Dependency struct {
	ID           string          `json:"id" yaml:"id"`
	VersionRange string          `json:"version_range" yaml:"version_range"`
	Optional     bool            `json:"optional" yaml:"optional"`
	Scope        DependencyScope `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// SystemRequirements declares what a plugin needs from the host environment.
// Every field is optional; a zero value means "no constraint".
type SystemRequirements struct {
	HostVersionRange    string   `json:"host_version_range,omitempty" yaml:"host_version_range,omitempty"`
	RuntimeVersionRange string   `json:"runtime_version_range,omitempty" yaml:"runtime_version_range,omitempty"`
	OperatingSystems    []string `json:"operating_systems,omitempty" yaml:"operating_systems,omitempty"`
	Architectures       []string `json:"architectures,omitempty" yaml:"architectures,omitempty"`
	MemoryMB            int      `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
	CPUCores            int      `json:"cpu_cores,omitempty" yaml:"cpu_cores,omitempty"`
	DiskSpaceMB         int      `json:"disk_space_mb,omitempty" yaml:"disk_space_mb,omitempty"`
	NetworkAccess       bool     `json:"network_access,omitempty" yaml:"network_access,omitempty"`
	RuntimeFeatures     []string `json:"runtime_features,omitempty" yaml:"runtime_features,omitempty"`
}

// Plugin describes an installable extension
type Plugin struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	Version          string             `json:"version" yaml:"version"`
	Type             PluginType         `json:"type" yaml:"type"`
	HostVersionRange string             `json:"host_version_range,omitempty" yaml:"host_version_range,omitempty"`
	Dependencies     []Dependency       `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	IncompatibleWith []string           `json:"incompatible_with,omitempty" yaml:"incompatible_with,omitempty"`
	Requirements     SystemRequirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// SystemInfo captures the host facts a compatibility check runs against.
// It is supplied by the caller and read-only to the engine.
type SystemInfo struct {
	RuntimeVersion    string   `json:"runtime_version" yaml:"runtime_version"`
	HostVersion       string   `json:"host_version" yaml:"host_version"`
	OperatingSystem   string   `json:"operating_system" yaml:"operating_system"`
	Architecture      string   `json:"architecture" yaml:"architecture"`
	AvailableMemoryMB int      `json:"available_memory_mb" yaml:"available_memory_mb"`
	CPUCores          int      `json:"cpu_cores" yaml:"cpu_cores"`
	InstalledPlugins  []string `json:"installed_plugins,omitempty" yaml:"installed_plugins,omitempty"`
}

// HasPlugin reports whether the given plugin id is installed on the host.
func (s *SystemInfo) HasPlugin(id string) bool {
	for _, installed := range s.InstalledPlugins {
		if installed == id {
			return true
		}
	}
	return false
}
