package domain

import "time"

// BuildState is the persisted record of the previous run's derived
// manifests ("guts"). The rebuild-need predicates compare it against the
// current run to decide whether collection can be skipped entirely.
type BuildState struct {
	// LastBuild is when the previous run completed.
	LastBuild time.Time `cbor:"1,keyasint"`
	// Fingerprints maps a manifest name (e.g. "binaries", "datas") to a
	// fingerprint of its entries at the time of the last build.
	Fingerprints map[string]uint64 `cbor:"2,keyasint"`
	// Entries holds the last build's manifests so their source mtimes
	// can be re-checked on the next run.
	Entries map[string][]Entry `cbor:"3,keyasint"`
}
