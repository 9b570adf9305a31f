package collect

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
)

// CheckPathOverlap rejects a bundle output directory that contains the
// specification or work directory: cleaning such an output would destroy
// the build's own inputs and intermediates.
func CheckPathOverlap(cfg *domain.BuildConfig) error {
	for _, reserved := range []struct {
		name string
		path string
	}{
		{"spec directory", cfg.SpecDir},
		{"work directory", cfg.WorkDir},
	} {
		if reserved.path == "" {
			continue
		}
		if containsPath(cfg.DistDir, reserved.path) {
			return zerr.With(zerr.With(
				domain.ErrPathOverlap, "output", cfg.DistDir), "reserved", reserved.name)
		}
	}
	return nil
}

// containsPath reports whether child is outer itself or lies below it.
func containsPath(outer, child string) bool {
	outerAbs, err := filepath.Abs(outer)
	if err != nil {
		return false
	}
	childAbs, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	if outerAbs == childAbs {
		return true
	}
	return strings.HasPrefix(childAbs, outerAbs+string(filepath.Separator))
}
