package collect_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/engine/collect"
)

func TestCheckPathOverlap(t *testing.T) {
	base := t.TempDir()

	t.Run("disjoint directories pass", func(t *testing.T) {
		err := collect.CheckPathOverlap(&domain.BuildConfig{
			SpecDir: filepath.Join(base, "project"),
			WorkDir: filepath.Join(base, "project", "build"),
			DistDir: filepath.Join(base, "project", "dist"),
		})
		require.NoError(t, err)
	})

	t.Run("output containing spec directory fails", func(t *testing.T) {
		err := collect.CheckPathOverlap(&domain.BuildConfig{
			SpecDir: filepath.Join(base, "out", "project"),
			WorkDir: filepath.Join(base, "elsewhere"),
			DistDir: filepath.Join(base, "out"),
		})
		require.ErrorIs(t, err, domain.ErrPathOverlap)
	})

	t.Run("output containing work directory fails", func(t *testing.T) {
		err := collect.CheckPathOverlap(&domain.BuildConfig{
			SpecDir: filepath.Join(base, "project"),
			WorkDir: filepath.Join(base, "dist", "build"),
			DistDir: filepath.Join(base, "dist"),
		})
		require.ErrorIs(t, err, domain.ErrPathOverlap)
	})

	t.Run("output equal to work directory fails", func(t *testing.T) {
		err := collect.CheckPathOverlap(&domain.BuildConfig{
			SpecDir: filepath.Join(base, "project"),
			WorkDir: filepath.Join(base, "dist"),
			DistDir: filepath.Join(base, "dist"),
		})
		require.ErrorIs(t, err, domain.ErrPathOverlap)
	})

	t.Run("sibling with shared prefix passes", func(t *testing.T) {
		err := collect.CheckPathOverlap(&domain.BuildConfig{
			SpecDir: filepath.Join(base, "dist-src"),
			WorkDir: filepath.Join(base, "dist-work"),
			DistDir: filepath.Join(base, "dist"),
		})
		require.NoError(t, err)
	})
}
