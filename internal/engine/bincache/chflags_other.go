//go:build !darwin && !freebsd && !netbsd && !openbsd

package bincache

// clearImmutableFlag is a no-op on platforms without BSD file flags.
func clearImmutableFlag(string) {}
