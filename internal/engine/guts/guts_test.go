package guts_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports/mocks"
	"github.com/balebuild/bale/internal/engine/guts"
)

func TestChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	t.Run("equal values do not trigger", func(t *testing.T) {
		assert.False(t, guts.Changed(log, "strip", true, true))
	})

	t.Run("different values trigger and log the name", func(t *testing.T) {
		log.EXPECT().Info("building because strip changed")
		assert.True(t, guts.Changed(log, "strip", false, true))
	})

	t.Run("deep equality over slices", func(t *testing.T) {
		old := []string{"a", "b"}
		assert.False(t, guts.Changed(log, "patterns", old, []string{"a", "b"}))
	})
}

func TestStaleByMTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	src := filepath.Join(dir, "lib.so")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	entries := []domain.Entry{{Dest: "lib.so", Src: src, Kind: domain.KindBinary}}

	t.Run("empty entries never stale", func(t *testing.T) {
		assert.False(t, guts.StaleByMTime(log, nil, time.Time{}))
	})

	t.Run("source older than last build", func(t *testing.T) {
		assert.False(t, guts.StaleByMTime(log, entries, time.Now().Add(time.Hour)))
	})

	t.Run("source newer than last build", func(t *testing.T) {
		log.EXPECT().Info(gomock.Any())
		assert.True(t, guts.StaleByMTime(log, entries, time.Now().Add(-time.Hour)))
	})

	t.Run("missing source never looks newer", func(t *testing.T) {
		missing := []domain.Entry{{Dest: "gone.so", Src: filepath.Join(dir, "gone.so")}}
		assert.False(t, guts.StaleByMTime(log, missing, time.Now().Add(-time.Hour)))
	})
}

func TestFingerprint(t *testing.T) {
	a := []domain.Entry{
		{Dest: "x", Src: "/s/x", Kind: domain.KindBinary},
		{Dest: "y", Src: "/s/y", Kind: domain.KindData},
	}
	b := []domain.Entry{
		{Dest: "x", Src: "/s/x", Kind: domain.KindBinary},
		{Dest: "y", Src: "/s/y", Kind: domain.KindData},
	}
	assert.Equal(t, guts.Fingerprint(a), guts.Fingerprint(b))

	// Kind participates in the fingerprint.
	b[1].Kind = domain.KindModule
	assert.NotEqual(t, guts.Fingerprint(a), guts.Fingerprint(b))

	// Separators keep adjacent fields from colliding.
	c := []domain.Entry{{Dest: "xy", Src: "/s/x", Kind: domain.KindBinary}}
	d := []domain.Entry{{Dest: "x", Src: "y/s/x", Kind: domain.KindBinary}}
	assert.NotEqual(t, guts.Fingerprint(c), guts.Fingerprint(d))
}

func TestChangedOrStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	src := filepath.Join(dir, "libfoo.so")
	require.NoError(t, os.WriteFile(src, []byte("bytes"), 0o644))
	entries := []domain.Entry{{Dest: "libfoo.so", Src: src, Kind: domain.KindBinary}}

	t.Run("unchanged and fresh", func(t *testing.T) {
		assert.False(t, guts.ChangedOrStale(log, "binaries", entries, entries, time.Now().Add(time.Hour)))
	})

	t.Run("manifest content changed", func(t *testing.T) {
		log.EXPECT().Info("building because binaries changed")
		grown := append([]domain.Entry{}, entries...)
		grown = append(grown, domain.Entry{Dest: "extra.so", Src: src, Kind: domain.KindBinary})
		assert.True(t, guts.ChangedOrStale(log, "binaries", entries, grown, time.Now().Add(time.Hour)))
	})

	t.Run("source touched after last build", func(t *testing.T) {
		log.EXPECT().Info(gomock.Any())
		assert.True(t, guts.ChangedOrStale(log, "binaries", entries, entries, time.Now().Add(-time.Hour)))
	})
}
