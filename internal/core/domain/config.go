package domain

import (
	"os"
	"runtime"
	"strconv"
)

// Platform is the target platform family the pipeline is producing a
// bundle for. It is carried in the build configuration instead of being
// read from runtime.GOOS at use sites so the platform-conditional pipeline
// stages stay testable on any host.
type Platform string

const (
	// PlatformWindows covers the manifest-rewrite and UPX-capable family.
	PlatformWindows Platform = "windows"
	// PlatformDarwin covers the signing-capable family that requires
	// architecture thinning and load-path relocation.
	PlatformDarwin Platform = "darwin"
	// PlatformLinux covers everything else.
	PlatformLinux Platform = "linux"
)

// CurrentPlatform maps the running OS onto a platform family.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformDarwin
	}
	return PlatformLinux
}

// IsWindows reports whether p is the Windows family.
func (p Platform) IsWindows() bool { return p == PlatformWindows }

// IsDarwin reports whether p is the signing-capable family.
func (p Platform) IsDarwin() bool { return p == PlatformDarwin }

// ConfigFileName is the build specification file discovered by walking up
// from the invocation directory.
const ConfigFileName = "bale.yaml"

// File permission constants shared across the module.
const (
	// DirPerm is the permission for created directories.
	DirPerm os.FileMode = 0o755
	// FilePerm is the permission for written data files.
	FilePerm os.FileMode = 0o644
	// CachedBinaryPerm is the normalized mode for cached binaries:
	// executable and readable for everyone, writable for the owner.
	CachedBinaryPerm os.FileMode = 0o755
)

// BuildConfig is the read-only configuration shared by the cache, the
// pipeline, and the byte-code cache. It is owned by the invoking tool;
// nothing in this module mutates it after construction.
type BuildConfig struct {
	// CacheDir is the root under which bincache namespaces are created.
	CacheDir string
	// WorkDir holds per-build intermediates, including compiled modules.
	WorkDir string
	// SpecDir is the directory containing the build specification file.
	SpecDir string
	// DistDir is the final bundle output directory.
	DistDir string

	// Platform selects the platform-conditional pipeline stages.
	Platform Platform
	// ToolchainTag identifies the interpreter/toolchain version, e.g.
	// "cp313". It partitions the cache and derives the byte-code magic.
	ToolchainTag string
	// WordSize is the CPU word size in bits (32 or 64).
	WordSize int
	// TargetArch optionally pins a single architecture slice.
	TargetArch string

	// BindingRedirects are the active dependency redirect rules.
	BindingRedirects []BindingRedirect
	// PrivateAssemblies converts bundled manifests to private assemblies.
	PrivateAssemblies bool

	// CodesignIdentity signs processed binaries on the darwin family; an
	// empty identity means ad-hoc signing.
	CodesignIdentity string
	// EntitlementsFile is the optional entitlements reference for signing.
	EntitlementsFile string
	// StrictArchValidation makes a missing architecture slice fatal.
	StrictArchValidation bool

	// Strip requests debug-symbol stripping of collected binaries.
	Strip bool
	// UPX requests compression of collected binaries.
	UPX bool
	// UPXDir optionally locates the upx executable.
	UPXDir string
	// HasUPX records whether a LZMA-capable upx build was detected.
	HasUPX bool
	// UPXExcludes disables compression for matching target paths.
	UPXExcludes []string

	// SearchPaths are the build-related module search paths whose
	// prefixes are scrubbed from compiled-module path references.
	SearchPaths []string

	// CompilerCommand is the external compiler invocation for source
	// modules; the module name and source path are appended to it.
	CompilerCommand []string

	// Collect is the raw list of collection instructions.
	Collect []CollectSpec
}

// DefaultWordSize is the word size of the running toolchain.
func DefaultWordSize() int {
	return strconv.IntSize
}
