// internal/services/leads/lead-relay/config.go
package leadrelay

import (
	"time"

	"site-builder/internal/common/config"
)

type Config struct {
	EmailEnabled       bool
	SMSEnabled         bool
	TelegramEnabled    bool
	FromEmail          string
	DefaultSMSSenderID string
	Timeout            time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

// LoadConfig reads the relay and integrations sections.
func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.EmailEnabled = cfg.Integrations.AWS.SES.Enabled
	c.SMSEnabled = cfg.Integrations.AWS.SNS.Enabled
	c.TelegramEnabled = cfg.Integrations.Telegram.Enabled && cfg.Integrations.Telegram.BotToken != ""
	c.FromEmail = cfg.Integrations.AWS.SES.FromEmail
	c.DefaultSMSSenderID = cfg.Integrations.AWS.SNS.DefaultSMSSenderID
	if cfg.Relay.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Relay.Timeout)
	}
	return c
}
