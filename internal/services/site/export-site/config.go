// internal/services/site/export-site/config.go
package exportsite

import (
	"time"

	"site-builder/internal/common/config"
)

type Config struct {
	WorkDir      string
	NodeBinary   string
	ExportScript string
	PushScript   string
	Timeout      time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		WorkDir:      ".",
		NodeBinary:   "node",
		ExportScript: "scripts/export-clean-site.js",
		PushScript:   "scripts/github-push-site.js",
		Timeout:      5 * time.Minute,
	}
}

func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Export.WorkDir != "" {
		c.WorkDir = cfg.Export.WorkDir
	}
	if cfg.Export.NodeBinary != "" {
		c.NodeBinary = cfg.Export.NodeBinary
	}
	if cfg.Export.ExportScript != "" {
		c.ExportScript = cfg.Export.ExportScript
	}
	if cfg.Export.PushScript != "" {
		c.PushScript = cfg.Export.PushScript
	}
	if cfg.Export.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Export.Timeout)
	}
	return c
}
