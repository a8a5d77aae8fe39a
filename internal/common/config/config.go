// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Storage      StorageConfig     `mapstructure:"storage"`
	Webhook      WebhookConfig     `mapstructure:"webhook"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	APIs         APIsConfig        `mapstructure:"apis"`
	Images       ImagesConfig      `mapstructure:"images"`
	Export       ExportConfig      `mapstructure:"export"`
	Relay        RelayConfig       `mapstructure:"relay"`
	Reputation   ReputationConfig  `mapstructure:"reputation"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address            string   `mapstructure:"address"`
	ReadTimeout        int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout       int      `mapstructure:"write_timeout"` // milliseconds
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
	AdminToken         string   `mapstructure:"admin_token"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Enabled reports whether a lead archive database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.Database != ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// --- Site Configuration Sections ---

// StorageConfig selects where the business config blob is persisted.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"` // memory, file, redis
	FileDir   string `mapstructure:"file_dir"`
	Namespace string `mapstructure:"namespace"`
}

// WebhookConfig holds the lead webhook settings. An empty URL is allowed at
// load time; submissions then fail with a configuration error.
type WebhookConfig struct {
	URL          string `mapstructure:"url"`
	Timeout      int    `mapstructure:"timeout"`       // milliseconds
	DedupeWindow int    `mapstructure:"dedupe_window"` // milliseconds, 0 disables
	// Secret is sent as a bearer token; the built-in relay requires it when set.
	Secret string `mapstructure:"secret"`
}

// IntegrationConfig holds settings for the owner notification channels used by the lead relay.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	Telegram struct {
		Enabled  bool   `mapstructure:"enabled"`
		BotToken string `mapstructure:"bot_token"`
	} `mapstructure:"telegram"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// ImagesConfig holds the public asset directory generated images are written to.
type ImagesConfig struct {
	PublicDir string `mapstructure:"public_dir"`
}

// ExportConfig holds settings for the export scripts.
type ExportConfig struct {
	WorkDir      string `mapstructure:"work_dir"`
	NodeBinary   string `mapstructure:"node_binary"`
	ExportScript string `mapstructure:"export_script"`
	PushScript   string `mapstructure:"push_script"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// RelayConfig toggles the built-in webhook receiver.
type RelayConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// ReputationConfig holds settings for reputation gate sessions.
type ReputationConfig struct {
	SessionTTL int `mapstructure:"session_ttl"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"` // stdout, file, both
	FilePath string `mapstructure:"file_path"`
}
