package ports

// MachOTools exposes the darwin binary-manipulation capabilities the
// pipeline orchestrates: architecture thinning, dependency load-path
// relocation, and code signing.
//
//go:generate mockgen -source=machotools.go -destination=mocks/mock_machotools.go -package=mocks
type MachOTools interface {
	// Thin reduces a multi-architecture binary to the given slice.
	// It reports domain.ErrNotMachO for foreign formats and
	// domain.ErrMissingArch when the slice is absent.
	Thin(path, arch string) error

	// SetDependencyPaths rewrites the binary's dependent-library load
	// paths to be relative to the given rpath prefix.
	SetDependencyPaths(path, rpath string) error

	// Sign re-signs the binary with the given identity and optional
	// entitlements file. An empty identity means ad-hoc signing.
	Sign(path, identity, entitlementsFile string) error
}
