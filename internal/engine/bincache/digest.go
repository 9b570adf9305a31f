package bincache

import (
	"io"
	"os"

	"go.trai.ch/zerr"
	"lukechampine.com/blake3"

	"github.com/balebuild/bale/internal/adapters/codec"
	"github.com/balebuild/bale/internal/core/domain"
)

// fileDigest hashes the full byte content of the source file together
// with the applicable binding-redirect rules. The rules participate
// because they change the effective output even when the source bytes do
// not: two identical files under different redirect sets must never share
// a cache slot.
func fileDigest(path string, redirects []domain.BindingRedirect) (domain.Digest, error) {
	var digest domain.Digest

	f, err := os.Open(path) //nolint:gosec // Path comes from the build manifest
	if err != nil {
		return digest, zerr.With(zerr.Wrap(err, "failed to open source for hashing"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	h := blake3.New(domain.DigestSize, nil)
	if _, err := io.Copy(h, f); err != nil {
		return digest, zerr.With(zerr.Wrap(err, "failed to hash source content"), "path", path)
	}

	if len(redirects) > 0 {
		rules, err := codec.Marshal(redirects)
		if err != nil {
			return digest, zerr.Wrap(err, "failed to encode binding redirects for hashing")
		}
		_, _ = h.Write(rules)
	}

	copy(digest[:], h.Sum(nil))
	return digest, nil
}
