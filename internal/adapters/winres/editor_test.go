package winres_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balebuild/bale/internal/adapters/winres"
	"github.com/balebuild/bale/internal/core/domain"
)

func TestReadManifest_NotPE(t *testing.T) {
	editor := winres.NewEditor()

	path := filepath.Join(t.TempDir(), "libnative.so")
	require.NoError(t, os.WriteFile(path, []byte("not a PE image"), 0o644))

	_, err := editor.ReadManifest(path)
	require.ErrorIs(t, err, domain.ErrNotPEImage)
}

func TestReadManifest_MissingFile(t *testing.T) {
	editor := winres.NewEditor()

	_, err := editor.ReadManifest(filepath.Join(t.TempDir(), "absent.dll"))
	require.Error(t, err)
}

func TestWriteManifest_NotPE(t *testing.T) {
	editor := winres.NewEditor()

	path := filepath.Join(t.TempDir(), "libnative.so")
	require.NoError(t, os.WriteFile(path, []byte("not a PE image"), 0o644))

	err := editor.WriteManifest(path, []byte("<assembly/>"))
	require.ErrorIs(t, err, domain.ErrNotPEImage)
}
