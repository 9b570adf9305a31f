// Package guts implements the rebuild-need predicates over the cached
// intermediate values ("guts") a build derives between runs. Each
// predicate that fires logs the specific value or path that caused it;
// that log line is the only feedback an operator gets for why an
// otherwise-idempotent build did work.
package guts

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/balebuild/bale/internal/core/domain"
	"github.com/balebuild/bale/internal/core/ports"
)

// Changed reports whether a simple configuration value differs from the
// previous build's.
func Changed(log ports.Logger, name string, oldValue, newValue any) bool {
	if !reflect.DeepEqual(oldValue, newValue) {
		log.Info(fmt.Sprintf("building because %s changed", name))
		return true
	}
	return false
}

// StaleByMTime reports whether any source file referenced by the previous
// build's entries has been modified after lastBuild. False for an empty
// entry list. Use this for calculated values read from cache.
func StaleByMTime(log ports.Logger, entries []domain.Entry, lastBuild time.Time) bool {
	for _, e := range entries {
		if mtime(e.Src).After(lastBuild) {
			log.Info(fmt.Sprintf("building because %s changed", e.Src))
			return true
		}
	}
	return false
}

// ChangedOrStale reports whether a manifest-shaped input must be rebuilt:
// either its content changed, or a source file it references was touched
// after the last build. Use this for inputs that were themselves derived
// from analysis.
func ChangedOrStale(log ports.Logger, name string, oldEntries, newEntries []domain.Entry, lastBuild time.Time) bool {
	return Changed(log, name, oldEntries, newEntries) ||
		StaleByMTime(log, oldEntries, lastBuild)
}

// Fingerprint computes a stable fingerprint over a manifest's entries,
// used to compare manifests across runs without persisting full content.
func Fingerprint(entries []domain.Entry) uint64 {
	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e.Dest)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(e.Src)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(e.Kind.String())
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// mtime returns the modification time of path, or the zero time when the
// file cannot be examined, so a missing file never looks newer than the
// last build.
func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
