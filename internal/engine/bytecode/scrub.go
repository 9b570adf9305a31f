package bytecode

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/balebuild/bale/internal/core/domain"
)

// StripPaths removes the build-machine prefix from the filename embedded
// in a code object. The longest matching search path wins; the resulting
// relative filename is propagated into every nested code object so
// tracebacks from the bundle never leak absolute build paths. When no
// prefix matches, the code object is returned unchanged.
func StripPaths(code *domain.CodeObject, searchPaths []string) *domain.CodeObject {
	prefixes := make([]string, 0, len(searchPaths))
	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		prefixes = append(prefixes, filepath.Clean(p)+string(filepath.Separator))
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	original := filepath.Clean(code.Filename)
	for _, prefix := range prefixes {
		if strings.HasPrefix(original, prefix) {
			scrubbed := rename(*code, original[len(prefix):])
			return &scrubbed
		}
	}
	return code
}

// rename returns a deep copy of code with filename applied throughout.
// The input is never mutated; scrubbed code objects may be shared through
// a caller-owned cache.
func rename(code domain.CodeObject, filename string) domain.CodeObject {
	code.Filename = filename
	if len(code.Consts) == 0 {
		return code
	}
	consts := make([]domain.CodeObject, len(code.Consts))
	for i, c := range code.Consts {
		consts[i] = rename(c, filename)
	}
	code.Consts = consts
	return code
}
