package bincache

import (
	"path/filepath"
	"strings"

	"github.com/balebuild/bale/internal/core/domain"
)

// matchExclude matches an exclusion pattern against the trailing path
// segments of path, right to left. '*' matches within a single segment;
// there is no recursive-wildcard support. Case sensitivity follows the
// platform default.
func matchExclude(platform domain.Platform, path, pattern string) bool {
	pathSegs := splitSegments(path)
	patSegs := splitSegments(pattern)

	if len(patSegs) == 0 || len(patSegs) > len(pathSegs) {
		return false
	}

	fold := platform.IsWindows()
	for i := 1; i <= len(patSegs); i++ {
		p := patSegs[len(patSegs)-i]
		s := pathSegs[len(pathSegs)-i]
		if fold {
			p = strings.ToLower(p)
			s = strings.ToLower(s)
		}
		ok, err := filepath.Match(p, s)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func splitSegments(p string) []string {
	return strings.FieldsFunc(filepath.ToSlash(p), func(r rune) bool { return r == '/' })
}
