package collect

import (
	"strings"

	"github.com/balebuild/bale/internal/core/domain"
)

// IncludeSystemBinary reports whether a discovered system-library entry
// should still be collected. System libraries are excluded by default;
// kept are dynamic-loader targets, interpreter-adjacent sources, anything
// outside the system library prefixes, and targets matching one of the
// caller's exception patterns.
func IncludeSystemBinary(e domain.Entry, exceptions []string) bool {
	if strings.HasPrefix(e.Dest, "lib-dynload") {
		return true
	}
	if wildcardMatch("*python*", e.Src) {
		return true
	}
	if !strings.HasPrefix(e.Src, "/lib") && !strings.HasPrefix(e.Src, "/usr/lib") {
		return true
	}
	for _, exception := range exceptions {
		if wildcardMatch(exception, e.Dest) {
			return true
		}
	}
	return false
}

// wildcardMatch matches shell-style patterns where '*' crosses path
// separators and '?' matches a single byte.
func wildcardMatch(pattern, s string) bool {
	p, n := 0, 0
	starP, starN := -1, 0
	for n < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[n]):
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			starP, starN = p, n
			p++
		case starP >= 0:
			starN++
			p, n = starP+1, starN
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
