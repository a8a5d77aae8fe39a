// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-site\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-site", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageNamespace, cfg.Storage.Namespace)
	assert.Equal(t, 10000, cfg.Webhook.Timeout)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.APIs.GenAI.Model)
	assert.Equal(t, "scripts/export-clean-site.js", cfg.Export.ExportScript)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_HOOK_URL", "https://hooks.example.com/lead")
	path := writeConfig(t, "webhook:\n  url: ${TEST_HOOK_URL}\n  timeout: 2500\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/lead", cfg.Webhook.URL)
	assert.Equal(t, 2500*time.Millisecond, GetDuration(cfg.Webhook.Timeout))
}

func TestLoadFromFile_EnvOverridesEmptyWebhook(t *testing.T) {
	t.Setenv("N8N_WEBHOOK_URL", "https://n8n.example.com/webhook/abc")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	path := writeConfig(t, "app:\n  name: x\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://n8n.example.com/webhook/abc", cfg.Webhook.URL)
	assert.Equal(t, "gem-key", cfg.APIs.GenAI.APIKey)
}

func TestLoadFromFile_MissingWebhookIsAllowed(t *testing.T) {
	path := writeConfig(t, "app:\n  name: x\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Webhook.URL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "redis backend without address",
			body:    "storage:\n  backend: redis\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "unknown backend",
			body:    "storage:\n  backend: s3\n",
			wantErr: "storage.backend must be one of",
		},
		{
			name:    "ses without sender",
			body:    "integrations:\n  aws:\n    ses:\n      enabled: true\n",
			wantErr: "from_email is required",
		},
		{
			name:    "bad log output",
			body:    "logging:\n  output: syslog\n",
			wantErr: "logging.output must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestPostgresConfig(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "leads", SSLMode: "disable"}
	assert.True(t, p.Enabled())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leads sslmode=disable", p.GetDSN())
	assert.False(t, PostgresConfig{}.Enabled())
}
