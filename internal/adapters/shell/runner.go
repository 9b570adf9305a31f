// Package shell runs the external post-processing tools (strip, upx) via
// os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/ports"
)

// Runner implements ports.ToolRunner. Tool output is captured and logged
// at debug level; the caller decides whether a failure matters.
type Runner struct {
	logger ports.Logger
}

func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes argv[0] with the remaining arguments and waits for it to
// complete. The tool inherits the parent environment.
func (r *Runner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Operator-configured tool
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	for _, line := range strings.Split(out.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			r.logger.Debug(argv[0] + ": " + line)
		}
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "tool", argv[0])
	}
	return nil
}
