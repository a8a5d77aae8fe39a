// internal/services/leads/submit-lead/config.go
package submitlead

import (
	"time"

	"site-builder/internal/common/config"
)

type Config struct {
	WebhookURL   string
	Timeout      time.Duration
	DedupeWindow time.Duration
	// Secret, when set, is sent as "Authorization: Bearer <secret>".
	Secret string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

// LoadConfig reads the webhook section of the application config.
func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.WebhookURL = cfg.Webhook.URL
	if cfg.Webhook.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Webhook.Timeout)
	}
	c.DedupeWindow = config.GetDuration(cfg.Webhook.DedupeWindow)
	c.Secret = cfg.Webhook.Secret
	return c
}
