// Package domain contains the core types for the bale collection pipeline.
package domain

import (
	"path/filepath"
	"sort"
)

// Kind classifies a collected file. The set is closed; pipeline code
// switches over it exhaustively instead of comparing type strings.
type Kind uint8

const (
	// KindBinary is a generic executable or shared library.
	KindBinary Kind = iota
	// KindExtension is a compiled extension module whose target path is
	// derived from a dotted module name.
	KindExtension
	// KindData is a plain data file copied verbatim.
	KindData
	// KindModule is a program source module destined for the byte-code
	// cache rather than the binary cache.
	KindModule
)

// String returns the log-friendly name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "BINARY"
	case KindExtension:
		return "EXTENSION"
	case KindData:
		return "DATA"
	case KindModule:
		return "MODULE"
	}
	return "UNKNOWN"
}

// Entry describes one file to collect into the bundle: a target path
// relative to the bundle root, the source path it is copied from, and its
// kind.
type Entry struct {
	Dest string
	Src  string
	Kind Kind
}

// CollectSpec is one "copy these files to that destination" instruction as
// written by the operator: a literal file, a directory, or a glob pattern,
// plus the destination directory inside the bundle.
type CollectSpec struct {
	Source  string
	DestDir string
	Kind    Kind
}

// TOC is a manifest of entries with set semantics over the target path:
// adding a second entry with an already-present Dest replaces the first,
// so structurally-duplicate targets collapse.
type TOC struct {
	entries map[string]Entry
}

// NewTOC creates an empty manifest.
func NewTOC() *TOC {
	return &TOC{entries: make(map[string]Entry)}
}

// Add inserts the entry, normalizing its target path first. A duplicate
// target replaces the previous entry.
func (t *TOC) Add(e Entry) {
	e.Dest = filepath.Clean(e.Dest)
	t.entries[e.Dest] = e
}

// Len reports the number of distinct target paths.
func (t *TOC) Len() int {
	return len(t.entries)
}

// Lookup returns the entry for the given (cleaned) target path.
func (t *TOC) Lookup(dest string) (Entry, bool) {
	e, ok := t.entries[filepath.Clean(dest)]
	return e, ok
}

// Entries returns the entries sorted by target path. The sort keeps
// manifest-derived hashes and logs deterministic across runs.
func (t *TOC) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dest < out[j].Dest })
	return out
}
