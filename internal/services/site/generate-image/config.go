// internal/services/site/generate-image/config.go
package generateimage

import (
	"time"

	"site-builder/internal/common/config"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	PublicDir string
	Timeout   time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		Model:     "gemini-2.5-flash-image",
		PublicDir: "public",
		Timeout:   60 * time.Second,
	}
}

// LoadConfig reads the genai and images sections of the application config.
func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.APIKey = cfg.APIs.GenAI.APIKey
	if cfg.APIs.GenAI.BaseURL != "" {
		c.BaseURL = cfg.APIs.GenAI.BaseURL
	}
	if cfg.APIs.GenAI.Model != "" {
		c.Model = cfg.APIs.GenAI.Model
	}
	if cfg.APIs.GenAI.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.APIs.GenAI.Timeout)
	}
	if cfg.Images.PublicDir != "" {
		c.PublicDir = cfg.Images.PublicDir
	}
	return c
}
