// Package bincache maintains the on-disk cache of post-processed binary
// artifacts. Each distinct combination of processing options owns its own
// namespace directory with a private digest index; an artifact whose
// source digest matches the indexed one is reused without re-running any
// of the stripping, compression, manifest, or code-signing work.
package bincache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/cas"
	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// Request describes one artifact to obtain from the cache.
type Request struct {
	// Source is the path of the original binary.
	Source string
	// Strip requests symbol stripping via the external strip tool.
	Strip bool
	// Compress requests UPX compression. Honored on windows only.
	Compress bool
	// CompressExcludes holds glob patterns; a source matching any of
	// them is never compressed.
	CompressExcludes []string
	// DestName is the bundle-relative destination, used as the index key
	// and to compute relocation depth. Falls back to the source basename.
	DestName string
	// TargetArch selects the slice a fat mach-o binary is thinned to.
	TargetArch string
	// CodesignIdentity and EntitlementsFile configure re-signing.
	CodesignIdentity string
	EntitlementsFile string
	// StrictArchValidation turns a missing architecture slice into an
	// error instead of a debug-logged skip.
	StrictArchValidation bool
}

// Cache is the binary artifact cache. It is not safe for concurrent use;
// the build driver processes entries sequentially and cross-process
// safety comes from the advisory lock around each index read and write.
type Cache struct {
	cfg       *domain.BuildConfig
	log       ports.Logger
	index     *cas.IndexStore
	manifests ports.ManifestCodec
	resources ports.ResourceEditor
	macho     ports.MachOTools
	inspector ports.BinaryInspector
	runner    ports.ToolRunner
}

func New(
	cfg *domain.BuildConfig,
	log ports.Logger,
	index *cas.IndexStore,
	manifests ports.ManifestCodec,
	resources ports.ResourceEditor,
	macho ports.MachOTools,
	inspector ports.BinaryInspector,
	runner ports.ToolRunner,
) *Cache {
	return &Cache{
		cfg:       cfg,
		log:       log,
		index:     index,
		manifests: manifests,
		resources: resources,
		macho:     macho,
		inspector: inspector,
		runner:    runner,
	}
}

// Obtain returns the path of the processed artifact for req, reusing the
// cached copy when the source digest still matches the namespace index.
// When no processing applies at all, the original source path is returned
// and nothing is cached.
func (c *Cache) Obtain(ctx context.Context, req Request) (string, error) {
	strip := req.Strip
	compress := req.Compress && c.cfg.Platform.IsWindows()

	if !c.needsProcessing(strip, compress) {
		return req.Source, nil
	}

	// The gate above has committed this artifact to the cache, so an
	// exclusion match still produces a cached, uncompressed copy.
	if compress {
		for _, pattern := range req.CompressExcludes {
			if matchExclude(c.cfg.Platform, req.Source, pattern) {
				c.log.Info(fmt.Sprintf("excluding %s from compression", req.Source))
				compress = false
				break
			}
		}
	}

	cacheDir, err := c.namespaceDir(strip, compress, req)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cacheDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create cache namespace"), "path", cacheDir)
	}

	j := &job{
		req:      req,
		strip:    strip,
		compress: compress,
		source:   req.Source,
		cacheDir: cacheDir,
		key:      c.indexKey(req),
	}
	// The full destination-relative key keeps same-named files from
	// different packages apart on disk, not just in the index.
	j.cachedFile = filepath.Join(cacheDir, filepath.FromSlash(j.key))

	index, err := c.index.Load(cacheDir)
	if err != nil {
		// A corrupt index means cached artifacts can no longer be
		// trusted; the namespace is left in place for inspection and the
		// build has to be pointed at a fresh cache directory.
		c.log.Warn(fmt.Sprintf("cache index in %s is unreadable", cacheDir))
		return "", err
	}

	digest, err := fileDigest(j.source, c.cfg.BindingRedirects)
	if err != nil {
		return "", err
	}

	if cached, ok := index[j.key]; ok {
		if cached == digest {
			return j.cachedFile, nil
		}
		if err := os.Remove(j.cachedFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(err, "failed to drop stale cached file"), "path", j.cachedFile)
		}
	}

	for _, s := range pipelineStages() {
		if !s.applies(c, j) {
			continue
		}
		done, err := s.apply(ctx, c, j)
		if err != nil {
			return "", zerr.With(err, "stage", s.name())
		}
		if done {
			return j.cachedFile, nil
		}
	}

	index[j.key] = digest
	if err := c.index.Save(cacheDir, index); err != nil {
		return "", err
	}
	return j.cachedFile, nil
}

// needsProcessing reports whether any pipeline stage could touch the
// artifact under the current configuration. When it returns false the
// cache is bypassed entirely.
func (c *Cache) needsProcessing(strip, compress bool) bool {
	if strip || compress || c.cfg.Platform.IsDarwin() {
		return true
	}
	if c.cfg.Platform.IsWindows() &&
		(len(c.cfg.BindingRedirects) > 0 || c.cfg.PrivateAssemblies) {
		return true
	}
	return false
}
