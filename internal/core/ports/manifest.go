// Package ports defines the core interfaces for the application, including
// the external binary-format capabilities the pipeline orchestrates.
package ports

import "github.com/balebuild/bale/internal/core/domain"

// ManifestCodec parses and serializes dependency manifests. The cache
// never inspects manifest bytes itself; it edits the parsed form and
// hands it back.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestCodec interface {
	// Parse decodes a dependency manifest.
	Parse(data []byte) (*domain.AssemblyManifest, error)

	// Serialize encodes the manifest back to its on-disk form.
	Serialize(m *domain.AssemblyManifest) ([]byte, error)
}

// ResourceEditor reads and rewrites the manifest resource embedded in a
// native Windows binary.
type ResourceEditor interface {
	// ReadManifest returns the embedded manifest resource bytes.
	// It reports domain.ErrNotPEImage for foreign binary formats and
	// domain.ErrNoManifestResource when the binary has no such resource;
	// the pipeline tolerates both.
	ReadManifest(path string) ([]byte, error)

	// WriteManifest replaces the embedded manifest resource.
	WriteManifest(path string, data []byte) error
}
