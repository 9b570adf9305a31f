//go:build darwin || freebsd || netbsd || openbsd

package bincache

import "golang.org/x/sys/unix"

// clearImmutableFlag drops BSD file flags such as uchg that would make
// the cached copy read-only. Failure is ignored; the subsequent chmod
// reports the actionable error.
func clearImmutableFlag(path string) {
	_ = unix.Chflags(path, 0)
}
