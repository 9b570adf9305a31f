// Package toolchain drives the external module compiler.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/codec"
	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// Compiler implements ports.ModuleCompiler by invoking the configured
// compiler command, which writes the serialized code object to stdout.
type Compiler struct {
	command []string
	logger  ports.Logger
}

func NewCompiler(command []string, logger ports.Logger) *Compiler {
	return &Compiler{command: command, logger: logger}
}

// Compile compiles the module at srcPath under its fully-qualified dotted
// name and decodes the emitted code object.
func (c *Compiler) Compile(ctx context.Context, name, srcPath string) (*domain.CodeObject, error) {
	if len(c.command) == 0 {
		return nil, zerr.With(zerr.New("no compiler command configured"), "module", name)
	}

	argv := append(append([]string{}, c.command...), name, srcPath)
	c.logger.Debug("compiling module " + name)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Operator-configured tool
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(err, "compiler failed"),
			"module", name), "stderr", strings.TrimSpace(stderr.String()))
	}

	var code domain.CodeObject
	if err := codec.Unmarshal(stdout.Bytes(), &code); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode compiled module"), "module", name)
	}
	return &code, nil
}
