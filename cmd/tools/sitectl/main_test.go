// cmd/tools/sitectl/main_test.go
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "site-builder/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Validation failed: slot 08:10 is not offered",
		describe(apperrors.NewValidationError("slot 08:10 is not offered")))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	appConfig := writeFile(t, dir, "config.yaml", "app:\n  name: sitectl-test\n")

	good := writeFile(t, dir, "good.json", `{"companyName":"Becker Bad GmbH"}`)
	require.NoError(t, run(t, "--config", appConfig, "config", "validate", good))

	bad := writeFile(t, dir, "bad.json", `{"slotDuration":20}`)
	err := run(t, "--config", appConfig, "config", "validate", bad)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
}

func TestConfigImportExport_FileBackend(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	appConfig := writeFile(t, dir, "config.yaml",
		"storage:\n  backend: file\n  file_dir: "+dataDir+"\n  namespace: site\n")

	input := writeFile(t, dir, "input.json", `{"slogan":"Aus der Datei"}`)
	require.NoError(t, run(t, "--config", appConfig, "config", "import", input))
	assert.FileExists(t, filepath.Join(dataDir, "site.json"))

	out := filepath.Join(dir, "export.json")
	require.NoError(t, run(t, "--config", appConfig, "config", "export", "--out", out))
	blob, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"slogan":"Aus der Datei"`)

	assert.Error(t, run(t, "--config", appConfig, "config", "reset"))
	require.NoError(t, run(t, "--config", appConfig, "config", "reset", "--yes"))
}

func TestTestWebhook_UnknownType(t *testing.T) {
	err := run(t, "test-webhook", "--type", "fax")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lead type")
}
