// Package collect normalizes operator-supplied collection instructions
// into a canonical manifest of (target, source) entries and applies the
// platform target-path fixups.
package collect

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
)

// devHeaderHint is attached to the not-found error when the source looks
// like an interpreter development header, the most common cause of this
// failure on distribution-packaged interpreters.
const devHeaderHint = "the interpreter installation lacks development files; install the development package or rebuild with shared libraries enabled"

// Normalize converts collection specs into a manifest of (target, source)
// entries. A spec source may be a literal file, a directory, or a glob;
// directories are walked recursively and mirror their relative structure
// under the destination. Relative sources are resolved against workingDir
// when it is non-empty. Duplicate target paths collapse.
func Normalize(specs []domain.CollectSpec, workingDir string) (*domain.TOC, error) {
	toc := domain.NewTOC()

	for _, spec := range specs {
		if spec.Source == "" {
			// An empty source would glob the whole working directory.
			return nil, domain.ErrEmptySource
		}
		if spec.DestDir == "" {
			return nil, zerr.With(domain.ErrEmptyDest, "source", spec.Source)
		}

		source := spec.Source
		if workingDir != "" && !filepath.IsAbs(source) {
			source = filepath.Join(workingDir, source)
		}
		source = filepath.Clean(source)

		roots, err := resolveSource(source)
		if err != nil {
			return nil, err
		}

		for _, root := range roots {
			if err := addRoot(toc, spec, root); err != nil {
				return nil, err
			}
		}
	}

	return toc, nil
}

// resolveSource expands a source spec into concrete existing paths: a
// literal existing file maps directly, anything else is treated as a glob.
func resolveSource(source string) ([]string, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return []string{source}, nil
	}

	matches, err := filepath.Glob(source)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid source pattern"), "pattern", source)
	}
	if len(matches) == 0 {
		notFound := zerr.With(domain.ErrSourceNotFound, "pattern", source)
		if strings.HasSuffix(source, "pyconfig.h") {
			notFound = zerr.With(notFound, "hint", devHeaderHint)
		}
		return nil, notFound
	}
	return matches, nil
}

func addRoot(toc *domain.TOC, spec domain.CollectSpec, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source"), "path", root)
	}

	if !info.IsDir() {
		toc.Add(domain.Entry{
			Dest: filepath.Join(spec.DestDir, filepath.Base(root)),
			Src:  filepath.Clean(root),
			Kind: spec.Kind,
		})
		return nil
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		toc.Add(domain.Entry{
			Dest: filepath.Join(spec.DestDir, rel),
			Src:  filepath.Clean(path),
			Kind: spec.Kind,
		})
		return nil
	})
	if walkErr != nil {
		return zerr.With(zerr.Wrap(walkErr, "failed to walk source directory"), "path", root)
	}
	return nil
}
