// internal/services/site/export-site/runner.go
package exportsite

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command is one external process invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
	Env  map[string]string
}

// Runner executes a Command and returns its captured output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout, stderr string, err error)
}

// ExecRunner runs commands as child processes. Env entries are added on top
// of the current process environment.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.String(), stderr.String(), err
	}
	return stdout.String(), stderr.String(), nil
}
