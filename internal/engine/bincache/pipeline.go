package bincache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
)

// job carries one artifact through the pipeline. source starts as the
// request's source path and may be replaced by the strip recursion before
// the copy stage runs.
type job struct {
	req        Request
	strip      bool
	compress   bool
	source     string
	cacheDir   string
	cachedFile string
	key        string
	cmd        []string
}

// stage is one optional pipeline step. Stages run in the fixed order
// returned by pipelineStages; each declares its own applicability instead
// of the caller nesting platform conditionals. A stage returning done
// short-circuits the pipeline and the caller returns the cached path
// without digest bookkeeping.
type stage interface {
	name() string
	applies(c *Cache, j *job) bool
	apply(ctx context.Context, c *Cache, j *job) (done bool, err error)
}

// pipelineStages returns the post-processing stages in declared order:
// manifest-file short circuit, external-command preparation (with the
// strip-then-compress recursion), copy into the cache, embedded-resource
// patching, mach-o thin/relocate/sign, and finally the queued external
// command.
func pipelineStages() []stage {
	return []stage{
		manifestFileStage{},
		commandStage{},
		copyStage{},
		resourceStage{},
		machoStage{},
		runStage{},
	}
}

// manifestFileStage handles standalone dependency-manifest files: the
// manifest is parsed, edited, and serialized to the cache path instead of
// being copied.
type manifestFileStage struct{}

func (manifestFileStage) name() string { return "manifest" }

func (manifestFileStage) applies(c *Cache, j *job) bool {
	return c.cfg.Platform.IsWindows() && strings.EqualFold(filepath.Ext(j.source), ".manifest")
}

func (manifestFileStage) apply(_ context.Context, c *Cache, j *job) (bool, error) {
	data, err := os.ReadFile(j.source) //nolint:gosec // Path comes from the build manifest
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", j.source)
	}

	m, err := c.manifests.Parse(data)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "path", j.source)
	}

	c.applyManifestRules(m, filepath.Base(j.source))

	out, err := c.manifests.Serialize(m)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to serialize manifest"), "path", j.source)
	}

	if err := os.MkdirAll(filepath.Dir(j.cachedFile), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", j.cachedFile)
	}
	if err := os.WriteFile(j.cachedFile, out, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", j.cachedFile)
	}
	return true, nil
}

// commandStage decides which external transformation to queue. When both
// compression and stripping are requested, compression wins and the strip
// is obtained through a recursive cache call so it is itself cached.
type commandStage struct{}

func (commandStage) name() string { return "command" }

func (commandStage) applies(_ *Cache, j *job) bool {
	return j.strip || j.compress
}

func (commandStage) apply(ctx context.Context, c *Cache, j *job) (bool, error) {
	if !j.compress {
		argv := []string{"strip"}
		if c.cfg.Platform.IsDarwin() {
			// Default strip behavior breaks some shared libraries on
			// this platform; remove only debug symbols.
			argv = append(argv, "-S")
		}
		j.cmd = append(argv, j.cachedFile)
		return false, nil
	}

	if j.strip {
		strippedReq := j.req
		strippedReq.Strip = true
		strippedReq.Compress = false
		stripped, err := c.Obtain(ctx, strippedReq)
		if err != nil {
			return false, err
		}
		j.source = stripped
	}

	switch {
	case c.cfg.Platform.IsWindows() && c.inspector.HasControlFlowGuard(j.source):
		c.log.Info(fmt.Sprintf("disabling compression for %s due to Control Flow Guard", j.source))
	case c.inspector.IsQtPlugin(j.source):
		c.log.Info(fmt.Sprintf("disabling compression for %s due to it being a Qt plugin", j.source))
	default:
		bestOpt := "--best"
		if c.cfg.HasUPX && c.cfg.Platform.IsWindows() {
			bestOpt = "--lzma"
		}
		upx := "upx"
		if c.cfg.UPXDir != "" {
			upx = filepath.Join(c.cfg.UPXDir, upx)
		}
		j.cmd = []string{upx, bestOpt, "-q", j.cachedFile}
	}
	return false, nil
}

// copyStage copies the (possibly already stripped) source into the cache
// namespace, normalizes its permission bits, and clears any filesystem
// immutability flag so later stages can rewrite the file in place.
type copyStage struct{}

func (copyStage) name() string { return "copy" }

func (copyStage) applies(_ *Cache, _ *job) bool { return true }

func (copyStage) apply(_ context.Context, _ *Cache, j *job) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(j.cachedFile), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", j.cachedFile)
	}
	if err := copyFile(j.source, j.cachedFile); err != nil {
		return false, err
	}
	// Some libraries ship with an immutability flag set; if it survived
	// the copy, chmod would fail with EPERM. Clearing it is best effort.
	clearImmutableFlag(j.cachedFile)
	if err := os.Chmod(j.cachedFile, domain.CachedBinaryPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to set cached file mode"), "path", j.cachedFile)
	}
	return false, nil
}

// resourceStage patches the manifest resource embedded in native Windows
// binaries. Foreign binary formats are tolerated and skipped.
type resourceStage struct{}

func (resourceStage) name() string { return "resource" }

func (resourceStage) applies(c *Cache, j *job) bool {
	if !c.cfg.Platform.IsWindows() {
		return false
	}
	switch strings.ToLower(filepath.Ext(j.source)) {
	case ".dll", ".pyd":
		return true
	}
	return false
}

func (resourceStage) apply(_ context.Context, c *Cache, j *job) (bool, error) {
	target, err := filepath.Abs(j.cachedFile)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to resolve cached path"), "path", j.cachedFile)
	}

	data, err := c.resources.ReadManifest(target)
	switch {
	case errors.Is(err, domain.ErrNotPEImage), errors.Is(err, domain.ErrNoManifestResource):
		return false, nil
	case err != nil:
		return false, zerr.With(zerr.Wrap(err, "failed to read manifest resource"), "path", target)
	}

	m, err := c.manifests.Parse(data)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "path", target)
	}

	if !c.applyManifestRules(m, filepath.Base(j.source)) {
		return false, nil
	}

	out, err := c.manifests.Serialize(m)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to serialize manifest resource"), "path", target)
	}
	if err := c.resources.WriteManifest(target, out); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to update manifest resource"), "path", target)
	}
	return false, nil
}

// machoStage thins the cached binary to the target architecture, rewrites
// its dependency load paths relative to the bundle root, and re-signs it.
// It runs unconditionally on the darwin family, independent of the
// strip/compress decision, because the load paths must always be made
// relocatable.
type machoStage struct{}

func (machoStage) name() string { return "macho" }

func (machoStage) applies(c *Cache, _ *job) bool {
	return c.cfg.Platform.IsDarwin()
}

func (machoStage) apply(_ context.Context, c *Cache, j *job) (bool, error) {
	if err := c.macho.Thin(j.cachedFile, j.req.TargetArch); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotMachO):
			// A foreign binary (e.g. a linux .so); nothing further can
			// be done with it, collect as-is.
			return false, nil
		case errors.Is(err, domain.ErrMissingArch):
			// Strict validation is warranted only where the architecture
			// must match exactly, i.e. extension modules. A universal
			// binary linked against thin libraries, or a collected
			// helper executable run via subprocess, may legitimately
			// miss a slice.
			if j.req.StrictArchValidation {
				return false, zerr.With(zerr.Wrap(err, domain.ErrPostProcessing.Error()), "path", j.cachedFile)
			}
			c.log.Debug(fmt.Sprintf("file %s failed optional architecture validation - collecting as-is", j.source))
			return false, nil
		default:
			return false, zerr.With(zerr.Wrap(err, domain.ErrPostProcessing.Error()), "path", j.cachedFile)
		}
	}

	if err := c.macho.SetDependencyPaths(j.cachedFile, relocPrefix(j.key)); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrPostProcessing.Error()), "path", j.cachedFile)
	}
	if err := c.macho.Sign(j.cachedFile, j.req.CodesignIdentity, j.req.EntitlementsFile); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrPostProcessing.Error()), "path", j.cachedFile)
	}
	return false, nil
}

// runStage executes the queued external command. The tool's exit status
// is deliberately not inspected and its output is discarded; surfacing
// the failure would change a documented leniency of the cache contract,
// so it is only logged.
type runStage struct{}

func (runStage) name() string { return "run" }

func (runStage) applies(_ *Cache, j *job) bool { return len(j.cmd) > 0 }

func (runStage) apply(ctx context.Context, c *Cache, j *job) (bool, error) {
	c.log.Info("executing: " + strings.Join(j.cmd, " "))
	if err := c.runner.Run(ctx, j.cmd); err != nil {
		c.log.Debug(fmt.Sprintf("external tool failed (ignored): %v", err))
	}
	return false, nil
}

// relocPrefix computes the loader-relative prefix for a binary collected
// at destName: one parent hop per directory level below the bundle root.
func relocPrefix(destName string) string {
	parent := filepath.ToSlash(filepath.Dir(destName))
	if parent == "." || parent == "" {
		return "@loader_path"
	}
	elems := []string{"@loader_path"}
	for range strings.Split(parent, "/") {
		elems = append(elems, "..")
	}
	return strings.Join(elems, "/")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path comes from the build manifest
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.Create(dst) //nolint:gosec // Path is inside the cache namespace
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cached file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy into cache"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to flush cached file"), "path", dst)
	}
	return nil
}
