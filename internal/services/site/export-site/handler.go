// internal/services/site/export-site/handler.go
package exportsite

import (
	"context"
	"strings"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
)

const (
	ServiceName = "export-site"

	ActionExportOnly    = "export-only"
	ActionExportAndPush = "export-and-push"

	// RepoEnvVar carries the target repository to the push script.
	RepoEnvVar = "GITHUB_REPO_URL"
)

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Output  string `json:"output"`
}

type Exporter struct {
	config *Config
	runner Runner
	logger logger.Logger
}

func NewExporter(config *Config, runner Runner, log logger.Logger) *Exporter {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Exporter{
		config: config,
		runner: runner,
		logger: log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
}

// Run performs action. export-and-push needs githubRepo and only pushes
// after the export succeeded.
func (e *Exporter) Run(ctx context.Context, action, githubRepo string) (*Output, error) {
	githubRepo = strings.TrimSpace(githubRepo)
	switch {
	case action == ActionExportOnly:
	case action == ActionExportAndPush && githubRepo != "":
	default:
		return nil, apperrors.NewValidationError("Invalid action or missing githubRepo")
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	log := e.logger.WithFields(map[string]interface{}{"action": action})
	log.Info("export started", nil)

	stdout, err := e.script(ctx, log, e.config.ExportScript, nil)
	if err != nil {
		return nil, e.fail(action, log, err)
	}

	if action == ActionExportOnly {
		metrics.ExportRuns.WithLabelValues(action, "success").Inc()
		log.Info("export finished", nil)
		return &Output{Success: true, Message: "Site exported successfully to exported-site/", Output: stdout}, nil
	}

	stdout, err = e.script(ctx, log, e.config.PushScript, map[string]string{RepoEnvVar: githubRepo})
	if err != nil {
		return nil, e.fail(action, log, err)
	}

	metrics.ExportRuns.WithLabelValues(action, "success").Inc()
	log.Info("export pushed", map[string]interface{}{"repo": githubRepo})
	return &Output{Success: true, Message: "Site exported and pushed to GitHub!", Output: stdout}, nil
}

func (e *Exporter) script(ctx context.Context, log logger.Logger, script string, env map[string]string) (string, error) {
	stdout, stderr, err := e.runner.Run(ctx, Command{
		Dir:  e.config.WorkDir,
		Name: e.config.NodeBinary,
		Args: []string{script},
		Env:  env,
	})
	if err != nil {
		return stdout, err
	}
	if s := strings.TrimSpace(stderr); s != "" && !strings.Contains(s, "Already up to date") {
		log.Warn("script wrote to stderr", map[string]interface{}{"script": script, "stderr": s})
	}
	return stdout, nil
}

func (e *Exporter) fail(action string, log logger.Logger, err error) error {
	metrics.ExportRuns.WithLabelValues(action, "failed").Inc()
	log.Error("export failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewExportFailedError(action, err)
}
