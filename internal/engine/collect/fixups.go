package collect

import (
	"path/filepath"
	"strings"

	"github.com/balebuild/bale/internal/core/domain"
)

// extensionSuffixes are the recognized native-library suffixes for
// extension-module targets.
var extensionSuffixes = map[string]bool{
	".so":    true,
	".pyd":   true,
	".dylib": true,
}

// vendorSubdirs are the sibling-package directories whose binaries end up
// visible at the bundle root because the vendor package puts them on the
// module search path directly.
var vendorSubdirs = map[string]bool{
	"win32":            true,
	"pythonwin":        true,
	"pywin32_system32": true,
}

// runtimeCanonicalDir is the canonical home for the duplicated runtime
// DLLs diverted by DivertDuplicateRuntimes.
const runtimeCanonicalDir = "pywin32_system32"

// CompleteExtensionSuffix adjusts an extension-module entry's target to
// include the full native-library suffix taken from the source filename.
// The dotted target name becomes a relative path, and compound suffixes
// such as ".cp311-win_amd64.pyd" are carried over whole. No-op for other
// kinds and for targets that already end with the source's filename.
func CompleteExtensionSuffix(e domain.Entry) domain.Entry {
	if e.Kind != domain.KindExtension {
		return e
	}

	srcBase := filepath.Base(e.Src)
	if strings.HasSuffix(e.Dest, srcBase) {
		// Already processed.
		return e
	}

	// Turn the dotted module name into a relative path, placing the
	// extension in the standard package location.
	dest := strings.ReplaceAll(e.Dest, ".", string(filepath.Separator))

	// In rare cases the target already carries a recognized suffix.
	if !extensionSuffixes[filepath.Ext(dest)] {
		base := filepath.Base(dest)
		// The source's existing suffix may be compound (implementation
		// tag plus extension), so take everything after the base name
		// rather than just the final extension.
		dest += srcBase[len(base):]
	}

	e.Dest = dest
	return e
}

// RelocateVendorBinaries rewrites entries whose target sits at the bundle
// root but whose source came from a known vendor package subdirectory so
// they nest under that subdirectory again. This keeps the layout
// consistent between statically-discovered extensions and binaries found
// by link-time dependency analysis.
func RelocateVendorBinaries(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		srcParent := filepath.Base(filepath.Dir(e.Src))
		if filepath.Dir(e.Dest) == "." && vendorSubdirs[strings.ToLower(srcParent)] {
			e.Dest = filepath.Join(srcParent, e.Dest)
		}
		out = append(out, e)
	}
	return out
}

// DivertDuplicateRuntimes diverts the shared runtime DLLs that some
// distributions install in several root-adjacent locations into the one
// canonical subdirectory. The final manifest deduplication resolves the
// resulting target collisions. runtimeVersion is the interpreter version
// tag embedded in the DLL names, e.g. "311".
func DivertDuplicateRuntimes(entries []domain.Entry, runtimeVersion string) []domain.Entry {
	candidates := map[string]bool{
		"pywintypes" + runtimeVersion + ".dll": true,
		"pythoncom" + runtimeVersion + ".dll":  true,
	}
	duplicateDirs := map[string]bool{
		".":     true,
		"win32": true,
	}

	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		base := filepath.Base(e.Dest)
		if candidates[strings.ToLower(base)] && duplicateDirs[filepath.Dir(e.Dest)] {
			e.Dest = filepath.Join(runtimeCanonicalDir, base)
		}
		out = append(out, e)
	}
	return out
}
