package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptySource is returned when a collect spec has an empty source,
	// which would otherwise collect the whole working directory.
	ErrEmptySource = zerr.New("empty source is not allowed when adding binary and data files")

	// ErrEmptyDest is returned when a collect spec has an empty destination.
	ErrEmptyDest = zerr.New("empty destination is not allowed when adding binary and data files; use '.' for the bundle root")

	// ErrSourceNotFound is returned when a collect source resolves to no
	// existing files.
	ErrSourceNotFound = zerr.New("unable to find source when adding binary and data files")

	// ErrPathOverlap is returned when an output path contains a reserved
	// build directory.
	ErrPathOverlap = zerr.New("output path overlaps a reserved build directory")

	// ErrCorruptIndex is returned when the on-disk cache index cannot be
	// decoded. The index is never deleted automatically.
	ErrCorruptIndex = zerr.New("bincache index may be corrupted; use 'bale clean' to fix it")

	// ErrManifestParse is returned when a dependency manifest cannot be
	// parsed.
	ErrManifestParse = zerr.New("failed to parse dependency manifest")

	// ErrNotPEImage is reported by the resource editor when a file is not
	// a native Windows binary. The pipeline tolerates it.
	ErrNotPEImage = zerr.New("not a PE image")

	// ErrNoManifestResource is reported when a native binary carries no
	// embedded manifest resource. The pipeline tolerates it.
	ErrNoManifestResource = zerr.New("no manifest resource")

	// ErrNotMachO is reported by the mach-o tools when a file is not a
	// recognized mach-o binary at all. The pipeline leaves the file as-is.
	ErrNotMachO = zerr.New("not a mach-o binary")

	// ErrMissingArch is reported when a mach-o binary lacks the requested
	// architecture slice. Fatal only under strict validation.
	ErrMissingArch = zerr.New("binary does not contain the required architecture slice")

	// ErrPostProcessing wraps any non-tolerated failure while processing
	// a cached binary.
	ErrPostProcessing = zerr.New("failed to process binary")

	// ErrBadModuleExt is returned for a module input with an unhandled
	// extension.
	ErrBadModuleExt = zerr.New("invalid program module file; unhandled extension")

	// ErrMagicMismatch is returned when a precompiled module was built
	// for an incompatible toolchain version.
	ErrMagicMismatch = zerr.New("compiled module was built for an incompatible toolchain version")

	// ErrConfigNotFound is returned when no bale.yaml can be discovered.
	ErrConfigNotFound = zerr.New("no bale.yaml found")

	// ErrConfigInvalid is returned when the configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")
)
