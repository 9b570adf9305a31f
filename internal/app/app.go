// Package app implements the application layer for bale.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/cas"
	"github.com/balebuild/bale/internal/adapters/toolchain"
	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
	"github.com/balebuild/bale/internal/engine/bincache"
	"github.com/balebuild/bale/internal/engine/bytecode"
	"github.com/balebuild/bale/internal/engine/collect"
	"github.com/balebuild/bale/internal/engine/guts"
)

// stateKey names the single manifest tracked in the persisted build state.
const stateKey = "collect"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	index        *cas.IndexStore
	state        *cas.StateStore
	manifests    ports.ManifestCodec
	resources    ports.ResourceEditor
	macho        ports.MachOTools
	inspector    ports.BinaryInspector
	runner       ports.ToolRunner

	// compiler overrides the config-derived external compiler when set.
	// Used by tests.
	compiler ports.ModuleCompiler
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	index *cas.IndexStore,
	state *cas.StateStore,
	manifests ports.ManifestCodec,
	resources ports.ResourceEditor,
	macho ports.MachOTools,
	inspector ports.BinaryInspector,
	runner ports.ToolRunner,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		index:        index,
		state:        state,
		manifests:    manifests,
		resources:    resources,
		macho:        macho,
		inspector:    inspector,
		runner:       runner,
	}
}

// WithCompiler replaces the external module compiler. This is primarily
// used for testing.
func (a *App) WithCompiler(compiler ports.ModuleCompiler) *App {
	a.compiler = compiler
	return a
}

// Collect runs the full collection pipeline: normalize the configured
// sources into a manifest, post-process binaries through the artifact
// cache, compile source modules, and assemble the bundle under the
// output directory. Unless force is set, a run whose manifest and source
// timestamps match the persisted state is skipped entirely.
//
//nolint:cyclop // orchestration function
func (a *App) Collect(ctx context.Context, cwd string, force bool) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if err := collect.CheckPathOverlap(cfg); err != nil {
		return err
	}

	toc, err := collect.Normalize(cfg.Collect, cfg.SpecDir)
	if err != nil {
		return err
	}
	entries := a.applyFixups(cfg, toc.Entries())
	a.detectUPX(ctx, cfg)

	if !force && a.upToDate(cfg, entries) {
		a.logger.Info("bundle is up to date")
		return nil
	}

	cache := bincache.New(cfg, a.logger, a.index, a.manifests, a.resources, a.macho, a.inspector, a.runner)
	modules := bytecode.New(cfg, a.logger, a.moduleCompiler(cfg))

	for _, e := range entries {
		if err := a.collectEntry(ctx, cfg, cache, modules, e); err != nil {
			return err
		}
	}

	if err := a.state.Put(cfg.WorkDir, domain.BuildState{
		LastBuild:    time.Now(),
		Fingerprints: map[string]uint64{stateKey: guts.Fingerprint(entries)},
		Entries:      map[string][]domain.Entry{stateKey: entries},
	}); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("collected %d entries into %s", len(entries), cfg.DistDir))
	return nil
}

// Clean removes the artifact cache and the work directory. The output
// directory is left alone.
func (a *App) Clean(cwd string) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	for _, dir := range []string{cfg.CacheDir, cfg.WorkDir} {
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", dir)
		}
		a.logger.Info("removed " + dir)
	}
	return nil
}

// applyFixups runs the target-path fixups over the normalized manifest.
// The vendor-directory fixups only make sense for the Windows runtime
// support packages they exist for.
func (a *App) applyFixups(cfg *domain.BuildConfig, entries []domain.Entry) []domain.Entry {
	for i, e := range entries {
		if e.Kind == domain.KindExtension {
			entries[i] = collect.CompleteExtensionSuffix(e)
		}
	}
	if cfg.Platform.IsWindows() {
		entries = collect.RelocateVendorBinaries(entries)
		entries = collect.DivertDuplicateRuntimes(entries, runtimeVersion(cfg.ToolchainTag))
	}

	// Relocation and diversion can fold several sources onto one target
	// path; re-adding through a TOC restores manifest uniqueness, with
	// the later entry winning as usual.
	toc := domain.NewTOC()
	for _, e := range entries {
		toc.Add(e)
	}
	return toc.Entries()
}

// detectUPX probes the configured compressor once per run. A responsive
// upx enables its LZMA mode; an absent one leaves compression on the
// slower built-in option so the pipeline's failure leniency applies.
func (a *App) detectUPX(ctx context.Context, cfg *domain.BuildConfig) {
	if !cfg.UPX || !cfg.Platform.IsWindows() {
		return
	}
	upx := "upx"
	if cfg.UPXDir != "" {
		upx = filepath.Join(cfg.UPXDir, upx)
	}
	cfg.HasUPX = a.runner.Run(ctx, []string{upx, "--version"}) == nil
}

// upToDate implements the rebuild-need check against the persisted build
// state: same manifest fingerprint and no source newer than the last run.
func (a *App) upToDate(cfg *domain.BuildConfig, entries []domain.Entry) bool {
	state, err := a.state.Get(cfg.WorkDir)
	if err != nil || state == nil {
		return false
	}
	if guts.Changed(a.logger, stateKey, state.Fingerprints[stateKey], guts.Fingerprint(entries)) {
		return false
	}
	return !guts.StaleByMTime(a.logger, state.Entries[stateKey], state.LastBuild)
}

func (a *App) collectEntry(
	ctx context.Context,
	cfg *domain.BuildConfig,
	cache *bincache.Cache,
	modules *bytecode.Cache,
	e domain.Entry,
) error {
	dest := filepath.Join(cfg.DistDir, e.Dest)

	switch e.Kind {
	case domain.KindBinary, domain.KindExtension:
		a.logger.Debug(fmt.Sprintf("collecting %s %s", e.Kind, e.Dest))
		processed, err := cache.Obtain(ctx, bincache.Request{
			Source:           e.Src,
			Strip:            cfg.Strip,
			Compress:         cfg.UPX,
			CompressExcludes: cfg.UPXExcludes,
			DestName:         e.Dest,
			TargetArch:       cfg.TargetArch,
			CodesignIdentity: cfg.CodesignIdentity,
			EntitlementsFile: cfg.EntitlementsFile,
			// Extension modules are loaded into the bundled process, so
			// their architecture must match exactly.
			StrictArchValidation: cfg.StrictArchValidation || e.Kind == domain.KindExtension,
		})
		if err != nil {
			return err
		}
		return copyIntoBundle(processed, dest)

	case domain.KindModule:
		a.logger.Debug(fmt.Sprintf("compiling %s %s", e.Kind, e.Dest))
		record, err := modules.CompileModule(ctx, moduleName(e.Dest), e.Src, nil)
		if err != nil {
			return err
		}
		return copyIntoBundle(record, compiledDest(dest))

	case domain.KindData:
		a.logger.Debug(fmt.Sprintf("collecting %s %s", e.Kind, e.Dest))
		return copyIntoBundle(e.Src, dest)
	}
	return nil
}

// moduleCompiler returns the injected compiler override or an external
// compiler built from the configured command.
func (a *App) moduleCompiler(cfg *domain.BuildConfig) ports.ModuleCompiler {
	if a.compiler != nil {
		return a.compiler
	}
	return toolchain.NewCompiler(cfg.CompilerCommand, a.logger)
}

// runtimeVersion extracts the numeric runtime version from a toolchain
// tag, e.g. "cp313" yields "313".
func runtimeVersion(toolchainTag string) string {
	return strings.TrimLeftFunc(toolchainTag, func(r rune) bool {
		return r < '0' || r > '9'
	})
}

// moduleName maps a bundle-relative module path onto its dotted name.
func moduleName(dest string) string {
	name := strings.TrimSuffix(filepath.ToSlash(dest), filepath.Ext(dest))
	name = strings.TrimSuffix(name, "/__init__")
	return strings.ReplaceAll(name, "/", ".")
}

// compiledDest swaps a module entry's source extension for the compiled
// record extension.
func compiledDest(dest string) string {
	return strings.TrimSuffix(dest, filepath.Ext(dest)) + ".pyc"
}

func copyIntoBundle(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create bundle directory"), "path", dest)
	}

	in, err := os.Open(src) //nolint:gosec // Path comes from the build manifest
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open collected file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat collected file"), "path", src)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create bundle file"), "path", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy into bundle"), "path", dest)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to flush bundle file"), "path", dest)
	}
	return nil
}
