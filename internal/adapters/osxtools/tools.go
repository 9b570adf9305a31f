// Package osxtools implements the mach-o post-processing capabilities by
// driving the platform toolchain (lipo, install_name_tool, codesign).
// Format inspection uses debug/macho so foreign binaries are detected
// without spawning a process.
package osxtools

import (
	"debug/macho"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// System library prefixes whose load paths are never rewritten.
var systemLibPrefixes = []string{"/usr/lib/", "/System/Library/"}

// Tools implements ports.MachOTools.
type Tools struct {
	logger ports.Logger
}

func NewTools(logger ports.Logger) *Tools {
	return &Tools{logger: logger}
}

// Thin validates that the binary carries the requested architecture slice
// and, for multi-architecture binaries, reduces it to that slice in
// place. An empty arch accepts any single-architecture binary.
func (t *Tools) Thin(path, arch string) error {
	if fat, err := macho.OpenFat(path); err == nil {
		defer fat.Close() //nolint:errcheck // Read-only handle

		if arch == "" {
			return nil
		}
		cpu, ok := cpuForArch(arch)
		if !ok {
			return zerr.With(domain.ErrMissingArch, "arch", arch)
		}
		found := false
		for _, a := range fat.Arches {
			if a.Cpu == cpu {
				found = true
				break
			}
		}
		if !found {
			return zerr.With(zerr.With(domain.ErrMissingArch, "arch", arch), "path", path)
		}
		return t.run("lipo", path, "-thin", arch, "-output", path)
	}

	f, err := macho.Open(path)
	if err != nil {
		return zerr.With(domain.ErrNotMachO, "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	if arch == "" {
		return nil
	}
	cpu, ok := cpuForArch(arch)
	if !ok || f.Cpu != cpu {
		return zerr.With(zerr.With(domain.ErrMissingArch, "arch", arch), "path", path)
	}
	return nil
}

// SetDependencyPaths rewrites the binary's install name and non-system
// dependent-library references to @rpath form and registers rpath as the
// single run path, making the binary relocatable within the bundle.
func (t *Tools) SetDependencyPaths(path, rpath string) error {
	f, err := macho.Open(path)
	if err != nil {
		return zerr.With(domain.ErrNotMachO, "path", path)
	}
	libs, err := f.ImportedLibraries()
	_ = f.Close()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read load commands"), "path", path)
	}

	argv := []string{"-id", "@rpath/" + filepath.Base(path)}
	for _, lib := range libs {
		if isSystemLib(lib) {
			continue
		}
		argv = append(argv, "-change", lib, "@rpath/"+filepath.Base(lib))
	}
	argv = append(argv, "-add_rpath", rpath, path)
	return t.run("install_name_tool", argv...)
}

// Sign re-signs the binary. An empty identity signs ad-hoc.
func (t *Tools) Sign(path, identity, entitlementsFile string) error {
	if identity == "" {
		identity = "-"
	}
	argv := []string{"-s", identity, "--force", "--all-architectures", "--timestamp=none"}
	if entitlementsFile != "" {
		argv = append(argv, "--entitlements", entitlementsFile)
	}
	argv = append(argv, path)
	return t.run("codesign", argv...)
}

func (t *Tools) run(tool string, args ...string) error {
	t.logger.Debug(fmt.Sprintf("executing: %s %s", tool, strings.Join(args, " ")))
	out, err := exec.Command(tool, args...).CombinedOutput() //nolint:gosec // Fixed platform tools
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "tool failed"), "tool", tool), "output", strings.TrimSpace(string(out)))
	}
	return nil
}

func cpuForArch(arch string) (macho.Cpu, bool) {
	switch arch {
	case "x86_64":
		return macho.CpuAmd64, true
	case "arm64":
		return macho.CpuArm64, true
	case "i386":
		return macho.Cpu386, true
	}
	return 0, false
}

func isSystemLib(lib string) bool {
	for _, prefix := range systemLibPrefixes {
		if strings.HasPrefix(lib, prefix) {
			return true
		}
	}
	return false
}
