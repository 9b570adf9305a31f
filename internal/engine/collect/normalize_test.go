package collect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/engine/collect"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func TestNormalize_LiteralFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "libfoo.so"))

	toc, err := collect.Normalize([]domain.CollectSpec{
		{Source: "libfoo.so", DestDir: ".", Kind: domain.KindBinary},
	}, dir)
	require.NoError(t, err)

	require.Equal(t, 1, toc.Len())
	e, ok := toc.Lookup("libfoo.so")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "libfoo.so"), e.Src)
	assert.Equal(t, domain.KindBinary, e.Kind)
}

func TestNormalize_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.dat"))
	writeFile(t, filepath.Join(dir, "b.dat"))
	writeFile(t, filepath.Join(dir, "c.txt"))

	toc, err := collect.Normalize([]domain.CollectSpec{
		{Source: "*.dat", DestDir: "data", Kind: domain.KindData},
	}, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, toc.Len())
	_, ok := toc.Lookup(filepath.Join("data", "a.dat"))
	assert.True(t, ok)
	_, ok = toc.Lookup(filepath.Join("data", "c.txt"))
	assert.False(t, ok)
}

func TestNormalize_DirectoryWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pkg", "top.txt"))
	writeFile(t, filepath.Join(dir, "pkg", "nested", "deep.txt"))

	toc, err := collect.Normalize([]domain.CollectSpec{
		{Source: "pkg", DestDir: "pkg", Kind: domain.KindData},
	}, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, toc.Len())
	_, ok := toc.Lookup(filepath.Join("pkg", "nested", "deep.txt"))
	assert.True(t, ok, "directory structure should be mirrored under the destination")
}

func TestNormalize_DuplicateTargetsCollapse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one", "lib.so"))
	writeFile(t, filepath.Join(dir, "two", "lib.so"))

	toc, err := collect.Normalize([]domain.CollectSpec{
		{Source: filepath.Join("one", "lib.so"), DestDir: ".", Kind: domain.KindBinary},
		{Source: filepath.Join("two", "lib.so"), DestDir: ".", Kind: domain.KindBinary},
	}, dir)
	require.NoError(t, err)

	require.Equal(t, 1, toc.Len())
	e, _ := toc.Lookup("lib.so")
	assert.Equal(t, filepath.Join(dir, "two", "lib.so"), e.Src, "later spec should win")
}

func TestNormalize_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty source", func(t *testing.T) {
		_, err := collect.Normalize([]domain.CollectSpec{
			{Source: "", DestDir: "."},
		}, dir)
		require.ErrorIs(t, err, domain.ErrEmptySource)
	})

	t.Run("empty destination", func(t *testing.T) {
		_, err := collect.Normalize([]domain.CollectSpec{
			{Source: "whatever", DestDir: ""},
		}, dir)
		require.ErrorIs(t, err, domain.ErrEmptyDest)
	})

	t.Run("source not found", func(t *testing.T) {
		_, err := collect.Normalize([]domain.CollectSpec{
			{Source: "missing-*.so", DestDir: "."},
		}, dir)
		require.ErrorIs(t, err, domain.ErrSourceNotFound)
	})

	t.Run("development header hint", func(t *testing.T) {
		_, err := collect.Normalize([]domain.CollectSpec{
			{Source: filepath.Join("include", "pyconfig.h"), DestDir: "."},
		}, dir)
		require.ErrorIs(t, err, domain.ErrSourceNotFound)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T: %v", err, err)
		assert.Contains(t, zErr.Metadata(), "hint", "expected development-files hint metadata")
	})
}
