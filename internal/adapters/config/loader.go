// Package config provides the build specification loader for bale.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// Default directories, relative to the specification file.
const (
	defaultCacheDir = ".bale/cache"
	defaultWorkDir  = "build"
	defaultDistDir  = "dist"
)

// Loader implements ports.ConfigLoader using a YAML file discovered by
// walking up from the invocation directory.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers and reads the build specification starting from cwd.
// Relative directory settings resolve against the specification file's
// directory, not the invocation directory.
func (l *Loader) Load(cwd string) (*domain.BuildConfig, error) {
	path, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Discovered specification path
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read build specification"), "path", path)
	}

	var balefile Balefile
	if err := yaml.Unmarshal(data, &balefile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "path", path)
	}

	return l.toConfig(&balefile, filepath.Dir(path))
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		path := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) toConfig(balefile *Balefile, specDir string) (*domain.BuildConfig, error) {
	if balefile.ToolchainTag == "" {
		return nil, zerr.With(domain.ErrConfigInvalid, "missing", "toolchain_tag")
	}

	cfg := &domain.BuildConfig{
		SpecDir:  specDir,
		CacheDir: resolveDir(specDir, balefile.CacheDir, defaultCacheDir),
		WorkDir:  resolveDir(specDir, balefile.WorkDir, defaultWorkDir),
		DistDir:  resolveDir(specDir, balefile.DistDir, defaultDistDir),

		Platform:     domain.CurrentPlatform(),
		ToolchainTag: balefile.ToolchainTag,
		WordSize:     balefile.WordSize,
		TargetArch:   balefile.TargetArch,

		PrivateAssemblies: balefile.PrivateAssemblies,

		CodesignIdentity:     balefile.CodesignIdentity,
		EntitlementsFile:     balefile.EntitlementsFile,
		StrictArchValidation: balefile.StrictArchValidation,

		Strip:       balefile.Strip,
		UPX:         balefile.UPX,
		UPXDir:      balefile.UPXDir,
		UPXExcludes: balefile.UPXExcludes,

		SearchPaths:     balefile.SearchPaths,
		CompilerCommand: balefile.CompilerCommand,
	}

	if balefile.Platform != "" {
		platform, err := parsePlatform(balefile.Platform)
		if err != nil {
			return nil, err
		}
		cfg.Platform = platform
	}
	if cfg.WordSize == 0 {
		cfg.WordSize = domain.DefaultWordSize()
	}

	for _, dto := range balefile.BindingRedirects {
		cfg.BindingRedirects = append(cfg.BindingRedirects, domain.BindingRedirect{
			Name:           dto.Name,
			Language:       dto.Language,
			Arch:           dto.Arch,
			PublicKeyToken: dto.PublicKeyToken,
			OldVersion:     dto.OldVersion,
			NewVersion:     dto.NewVersion,
		})
	}

	for _, dto := range balefile.Collect {
		kind, err := parseKind(dto.Kind)
		if err != nil {
			return nil, err
		}
		cfg.Collect = append(cfg.Collect, domain.CollectSpec{
			Source:  dto.Source,
			DestDir: dto.Dest,
			Kind:    kind,
		})
	}

	if cfg.UPX && !cfg.Platform.IsWindows() {
		l.Logger.Warn(fmt.Sprintf("compression has no effect on platform %s", cfg.Platform))
	}

	return cfg, nil
}

func resolveDir(specDir, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(specDir, value)
}

func parsePlatform(s string) (domain.Platform, error) {
	switch strings.ToLower(s) {
	case "windows":
		return domain.PlatformWindows, nil
	case "darwin":
		return domain.PlatformDarwin, nil
	case "linux":
		return domain.PlatformLinux, nil
	}
	return "", zerr.With(zerr.With(domain.ErrConfigInvalid, "field", "platform"), "value", s)
}

func parseKind(s string) (domain.Kind, error) {
	switch strings.ToLower(s) {
	case "binary":
		return domain.KindBinary, nil
	case "extension":
		return domain.KindExtension, nil
	case "data", "":
		return domain.KindData, nil
	case "module":
		return domain.KindModule, nil
	}
	return 0, zerr.With(zerr.With(domain.ErrConfigInvalid, "field", "kind"), "value", s)
}
