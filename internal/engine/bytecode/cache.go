// Package bytecode maintains per-build compiled module records under the
// work directory. A record is reused when it is newer than its source
// and carries the current toolchain magic; anything else is recompiled.
package bytecode

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// Module source/record extensions recognized by CompileModule.
const (
	sourceExt = ".py"
	recordExt = ".pyc"
)

// Cache compiles program modules into their on-disk record form.
type Cache struct {
	cfg      *domain.BuildConfig
	log      ports.Logger
	compiler ports.ModuleCompiler
}

func New(cfg *domain.BuildConfig, log ports.Logger, compiler ports.ModuleCompiler) *Cache {
	return &Cache{cfg: cfg, log: log, compiler: compiler}
}

// CompileModule produces the compiled record for the module with the
// given fully-qualified dotted name and returns its path under the work
// directory. codeCache optionally supplies already-compiled code objects
// keyed by module name; entries found there skip the external compiler.
func (c *Cache) CompileModule(
	ctx context.Context,
	name, srcPath string,
	codeCache map[string]*domain.CodeObject,
) (string, error) {
	magic := Magic(c.cfg.ToolchainTag)
	dest := c.recordPath(name, srcPath)

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create module directory"), "path", dest)
	}

	if c.upToDate(srcPath, dest, magic) {
		return dest, nil
	}

	var (
		code *domain.CodeObject
		err  error
	)
	// An analysis pass may have produced the code object already; a
	// lookup hit skips extension handling entirely.
	if cached, ok := codeCache[name]; ok && cached != nil {
		code = cached
	} else {
		switch strings.ToLower(filepath.Ext(srcPath)) {
		case sourceExt:
			if code, err = c.compiler.Compile(ctx, name, srcPath); err != nil {
				return "", err
			}
		case recordExt:
			data, err := os.ReadFile(srcPath) //nolint:gosec // Path comes from the build manifest
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to read compiled module"), "path", srcPath)
			}
			code, err = decodeRecord(magic, data)
			if errors.Is(err, domain.ErrMagicMismatch) {
				return "", zerr.With(zerr.With(err, "module", name), "path", srcPath)
			}
			if err != nil {
				return "", zerr.With(err, "path", srcPath)
			}
		default:
			return "", zerr.With(zerr.With(domain.ErrBadModuleExt, "module", name), "path", srcPath)
		}
	}

	code = StripPaths(code, c.cfg.SearchPaths)

	record, err := encodeRecord(magic, code)
	if err != nil {
		return "", zerr.With(err, "module", name)
	}
	if err := os.WriteFile(dest, record, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write compiled module"), "path", dest)
	}
	return dest, nil
}

// recordPath maps a dotted module name onto its record path. A package
// initializer keeps its directory per name component; a plain module
// lands in its parent package's directory.
func (c *Cache) recordPath(name, srcPath string) string {
	split := strings.Split(name, ".")
	var pkgDirs []string
	base := ""
	if strings.Contains(srcPath, "__init__") {
		pkgDirs = split
		base = "__init__"
	} else {
		pkgDirs = split[:len(split)-1]
		base = split[len(split)-1]
	}
	elems := append([]string{c.cfg.WorkDir}, pkgDirs...)
	return filepath.Join(append(elems, base+recordExt)...)
}

// upToDate reports whether an existing record is strictly newer than its
// source and was written under the current toolchain magic.
func (c *Cache) upToDate(srcPath, dest string, magic [4]byte) bool {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return false
	}
	destInfo, err := os.Stat(dest)
	if err != nil || !destInfo.ModTime().After(srcInfo.ModTime()) {
		return false
	}

	f, err := os.Open(dest) //nolint:gosec // Path is inside the work directory
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	var have [4]byte
	if _, err := io.ReadFull(f, have[:]); err != nil {
		return false
	}
	return have == magic
}
