// compat-check evaluates plugin compatibility against a host system and plans
// version upgrades. It loads a plugin catalog and system facts from YAML
// files, runs the requested mode, and prints the result as JSON on stdout.
//
// Usage:
//
//	compat-check -mode check -catalog catalog.yaml -system system.yaml -plugin my-plugin
//	compat-check -mode check -catalog catalog.yaml -system system.yaml
//	compat-check -mode plan -catalog catalog.yaml -plugin my-plugin -current 1.2.0 -target 3.0.0
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/compatibility"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/config"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/observability"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/plugins"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/registry"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/upgrade"
	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

type flags struct {
	Mode        string
	CatalogPath string
	SystemPath  string
	PluginID    string
	Current     string
	Target      string
}

func main() {
	opts := parseFlags()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.ParsedLogLevel())

	if err := run(opts, cfg, logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func parseFlags() *flags {
	opts := &flags{}

	flag.StringVar(&opts.Mode, "mode", "check", "Mode to run: check or plan")
	flag.StringVar(&opts.CatalogPath, "catalog", "catalog.yaml", "Path to the plugin catalog YAML file")
	flag.StringVar(&opts.SystemPath, "system", "system.yaml", "Path to the system facts YAML file (check mode)")
	flag.StringVar(&opts.PluginID, "plugin", "", "Plugin ID to check or plan; empty checks every plugin in the catalog")
	flag.StringVar(&opts.Current, "current", "", "Current plugin version (plan mode)")
	flag.StringVar(&opts.Target, "target", "", "Target plugin version (plan mode)")

	flag.Parse()

	return opts
}

func setupLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(level)

	return logger
}

func run(opts *flags, cfg *config.Config, logger *logrus.Logger) error {
	versions, err := version.NewCache(cfg.VersionCacheSize)
	if err != nil {
		return fmt.Errorf("creating version cache: %w", err)
	}

	reg, err := registry.Load(opts.CatalogPath, versions)
	if err != nil {
		return err
	}
	logger.WithField("plugins", reg.Count()).Debug("catalog loaded")

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	switch opts.Mode {
	case "check":
		err = runCheck(opts, cfg, logger, versions, reg, metrics)
	case "plan":
		err = runPlan(opts, cfg, logger, versions, reg, metrics)
	default:
		return fmt.Errorf("unknown mode %q (must be check or plan)", opts.Mode)
	}
	if err != nil {
		return err
	}

	if metrics != nil {
		metrics.UpdateCacheStats(versions.Stats())
	}
	return nil
}

func runCheck(opts *flags, cfg *config.Config, logger *logrus.Logger, versions *version.Cache, reg *registry.Registry, metrics *observability.Metrics) error {
	sys, err := loadSystemInfo(opts.SystemPath)
	if err != nil {
		return err
	}

	engine := compatibility.NewEngine(versions, logger)
	engine.SetWorkers(cfg.CheckWorkers)
	if metrics != nil {
		engine.SetMetrics(metrics)
	}

	if opts.PluginID != "" {
		plugin, ok := reg.Plugin(opts.PluginID)
		if !ok {
			return fmt.Errorf("plugin not found in catalog: %s", opts.PluginID)
		}
		report, err := engine.CheckPlugin(plugin, sys)
		if err != nil {
			return err
		}
		return printJSON(report)
	}

	reports, err := engine.CheckMany(reg.List(), sys)
	if err != nil {
		return err
	}
	return printJSON(reports)
}

func runPlan(opts *flags, cfg *config.Config, logger *logrus.Logger, versions *version.Cache, reg *registry.Registry, metrics *observability.Metrics) error {
	if opts.PluginID == "" || opts.Current == "" || opts.Target == "" {
		return fmt.Errorf("plan mode requires -plugin, -current, and -target")
	}

	detector := upgrade.NewDetector(reg, versions, logger)
	planner, err := upgrade.NewPlanner(versions, detector, logger)
	if err != nil {
		return err
	}
	planner.SetCatalog(reg)
	planner.SetGuideStore(reg)
	if err := planner.SetGuideCacheSize(cfg.GuideCacheSize); err != nil {
		return err
	}
	if metrics != nil {
		planner.SetMetrics(metrics)
	}

	analysis, err := planner.Plan(opts.PluginID, opts.Current, opts.Target)
	if err != nil {
		return err
	}
	return printJSON(analysis)
}

func loadSystemInfo(path string) (*plugins.SystemInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system facts: %w", err)
	}

	var sys plugins.SystemInfo
	if err := yaml.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("parsing system facts %s: %w", path, err)
	}
	return &sys, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
