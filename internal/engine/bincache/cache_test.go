package bincache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/balebuild/bale/internal/adapters/cas"
	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports/mocks"
	"github.com/balebuild/bale/internal/engine/bincache"
)

type fixture struct {
	cfg       *domain.BuildConfig
	cache     *bincache.Cache
	manifests *mocks.MockManifestCodec
	resources *mocks.MockResourceEditor
	macho     *mocks.MockMachOTools
	inspector *mocks.MockBinaryInspector
	runner    *mocks.MockToolRunner
}

func newFixture(t *testing.T, platform domain.Platform) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	f := &fixture{
		cfg: &domain.BuildConfig{
			CacheDir:     t.TempDir(),
			Platform:     platform,
			ToolchainTag: "cp311",
			WordSize:     64,
		},
		manifests: mocks.NewMockManifestCodec(ctrl),
		resources: mocks.NewMockResourceEditor(ctrl),
		macho:     mocks.NewMockMachOTools(ctrl),
		inspector: mocks.NewMockBinaryInspector(ctrl),
		runner:    mocks.NewMockToolRunner(ctrl),
	}
	f.cache = bincache.New(
		f.cfg, log, cas.NewIndexStore(),
		f.manifests, f.resources, f.macho, f.inspector, f.runner,
	)
	return f
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestObtain_NoProcessingReturnsSource(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libplain.so", "bytes")

	got, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)
	assert.Equal(t, src, got, "nothing to do, the original path is returned uncached")
}

func TestObtain_StripCachesAndReuses(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libfoo.so", "original")

	// The strip tool runs once against the cached copy.
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, argv []string) error {
			require.Equal(t, "strip", argv[0])
			return nil
		})

	first, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err)
	assert.NotEqual(t, src, first)
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	// Unchanged source: served from the index without re-running anything.
	second, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestObtain_DigestChangeInvalidates(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libfoo.so", "v1")

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("v2 content"), 0o644))

	cached, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err)
	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, "v2 content", string(data))
}

func TestObtain_ToolFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libfoo.so", "bytes")

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(errors.New("strip: exit status 1"))

	got, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err, "a failing external tool must not fail the build")
	assert.FileExists(t, got)
}

func TestObtain_NamespaceSeparation(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libfoo.so", "bytes")

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil)

	stripped, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.NoError(t, err)

	plain, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)

	assert.NotEqual(t, stripped, plain, "option tuples must never share a cache slot")
}

func TestObtain_CompressExclusion(t *testing.T) {
	f := newFixture(t, domain.PlatformWindows)
	src := writeSource(t, "excluded.dll", "bytes")

	f.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNoManifestResource)
	// No runner expectation: the exclusion must keep upx off the queue.

	got, err := f.cache.Obtain(context.Background(), bincache.Request{
		Source:           src,
		Compress:         true,
		CompressExcludes: []string{"excluded.dll"},
	})
	require.NoError(t, err)

	// An excluded entry is still cached, just never compressed.
	assert.NotEqual(t, src, got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestObtain_CompressSkipsProtectedBinaries(t *testing.T) {
	t.Run("control flow guard", func(t *testing.T) {
		f := newFixture(t, domain.PlatformWindows)
		src := writeSource(t, "guarded.dll", "bytes")

		f.inspector.EXPECT().HasControlFlowGuard(src).Return(true)
		f.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNoManifestResource)
		// No runner expectation: compression must not be queued.

		got, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Compress: true})
		require.NoError(t, err)
		assert.FileExists(t, got, "the binary is still collected, just uncompressed")
	})

	t.Run("qt plugin", func(t *testing.T) {
		f := newFixture(t, domain.PlatformWindows)
		src := writeSource(t, "qtplugin.dll", "bytes")

		f.inspector.EXPECT().HasControlFlowGuard(src).Return(false)
		f.inspector.EXPECT().IsQtPlugin(src).Return(true)
		f.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNoManifestResource)

		_, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Compress: true})
		require.NoError(t, err)
	})
}

func TestObtain_StripThenCompress(t *testing.T) {
	f := newFixture(t, domain.PlatformWindows)
	src := writeSource(t, "libboth.dll", "bytes")

	f.inspector.EXPECT().HasControlFlowGuard(gomock.Any()).Return(false)
	f.inspector.EXPECT().IsQtPlugin(gomock.Any()).Return(false)
	// Foreign-format tolerance covers both the inner and outer pass.
	f.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNotPEImage).Times(2)

	var commands [][]string
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, argv []string) error {
			commands = append(commands, argv)
			return nil
		}).Times(2)

	_, err := f.cache.Obtain(context.Background(), bincache.Request{
		Source: src, Strip: true, Compress: true,
	})
	require.NoError(t, err)

	// The strip pass runs first via the recursive cache call, then the
	// compression pass consumes its output.
	require.Len(t, commands, 2)
	assert.Equal(t, "strip", commands[0][0])
	assert.Equal(t, "upx", commands[1][0])
	assert.Contains(t, commands[1], "--best")
}

func TestObtain_ManifestFileShortCircuit(t *testing.T) {
	f := newFixture(t, domain.PlatformWindows)
	f.cfg.PrivateAssemblies = true
	src := writeSource(t, "dep.manifest", "<assembly/>")

	parsed := &domain.AssemblyManifest{
		Identity: domain.AssemblyRef{Name: "dep", PublicKeyToken: "abcd"},
	}
	// No digest bookkeeping for manifests: both calls re-process.
	f.manifests.EXPECT().Parse(gomock.Any()).Return(parsed, nil).Times(2)
	f.manifests.EXPECT().Serialize(gomock.Any()).DoAndReturn(
		func(m *domain.AssemblyManifest) ([]byte, error) {
			assert.Empty(t, m.Identity.PublicKeyToken, "identity token must be cleared")
			return []byte("<rewritten/>"), nil
		}).Times(2)

	first, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "<rewritten/>", string(data))

	_, err = f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)
}

func TestObtain_RedirectsParticipateInDigest(t *testing.T) {
	src := writeSource(t, "lib.dll", "stable bytes")

	redirect := domain.BindingRedirect{Name: "assembly", OldVersion: "1.0", NewVersion: "1.1"}

	f := newFixture(t, domain.PlatformWindows)
	f.cfg.BindingRedirects = []domain.BindingRedirect{redirect}
	f.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNoManifestResource)

	first, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)

	// Same source, same rules: cache hit, the editor is not consulted.
	second, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Same source under different rules must miss even in the same
	// namespace directory.
	g := newFixture(t, domain.PlatformWindows)
	g.cfg.CacheDir = f.cfg.CacheDir
	g.cfg.BindingRedirects = []domain.BindingRedirect{{Name: "assembly", OldVersion: "1.0", NewVersion: "2.0"}}
	g.resources.EXPECT().ReadManifest(gomock.Any()).Return(nil, domain.ErrNoManifestResource)

	_, err = g.cache.Obtain(context.Background(), bincache.Request{Source: src})
	require.NoError(t, err)
}

func TestObtain_CorruptIndex(t *testing.T) {
	f := newFixture(t, domain.PlatformLinux)
	src := writeSource(t, "libfoo.so", "bytes")

	namespace := filepath.Join(f.cfg.CacheDir, "bincache10_cp311_64")
	require.NoError(t, os.MkdirAll(namespace, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(namespace, cas.IndexFileName), []byte("garbage"), 0o644))

	_, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src, Strip: true})
	require.ErrorIs(t, err, domain.ErrCorruptIndex)

	// The corrupt index is left in place for inspection.
	assert.FileExists(t, filepath.Join(namespace, cas.IndexFileName))
}

func TestObtain_MachO(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		f := newFixture(t, domain.PlatformDarwin)
		src := writeSource(t, "libfoo.dylib", "bytes")

		gomock.InOrder(
			f.macho.EXPECT().Thin(gomock.Any(), "arm64").Return(nil),
			f.macho.EXPECT().SetDependencyPaths(gomock.Any(), "@loader_path/..").Return(nil),
			f.macho.EXPECT().Sign(gomock.Any(), "Dev ID", "").Return(nil),
		)

		_, err := f.cache.Obtain(context.Background(), bincache.Request{
			Source:           src,
			DestName:         "sub/libfoo.dylib",
			TargetArch:       "arm64",
			CodesignIdentity: "Dev ID",
		})
		require.NoError(t, err)
	})

	t.Run("foreign binary tolerated", func(t *testing.T) {
		f := newFixture(t, domain.PlatformDarwin)
		src := writeSource(t, "libforeign.so", "bytes")

		f.macho.EXPECT().Thin(gomock.Any(), "").Return(domain.ErrNotMachO)
		// Neither relocation nor signing runs for a foreign binary.

		got, err := f.cache.Obtain(context.Background(), bincache.Request{Source: src})
		require.NoError(t, err)
		assert.FileExists(t, got)
	})

	t.Run("missing arch is fatal under strict validation", func(t *testing.T) {
		f := newFixture(t, domain.PlatformDarwin)
		src := writeSource(t, "ext.so", "bytes")

		f.macho.EXPECT().Thin(gomock.Any(), "arm64").Return(domain.ErrMissingArch)

		_, err := f.cache.Obtain(context.Background(), bincache.Request{
			Source:               src,
			TargetArch:           "arm64",
			StrictArchValidation: true,
		})
		require.ErrorIs(t, err, domain.ErrMissingArch)
	})

	t.Run("missing arch collected as-is otherwise", func(t *testing.T) {
		f := newFixture(t, domain.PlatformDarwin)
		src := writeSource(t, "helper", "bytes")

		f.macho.EXPECT().Thin(gomock.Any(), "arm64").Return(domain.ErrMissingArch)

		got, err := f.cache.Obtain(context.Background(), bincache.Request{
			Source:     src,
			TargetArch: "arm64",
		})
		require.NoError(t, err)
		assert.FileExists(t, got)
	})
}
