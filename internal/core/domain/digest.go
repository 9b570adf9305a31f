package domain

import "encoding/hex"

// DigestSize is the byte length of a content digest.
const DigestSize = 32

// Digest is a cryptographic hash over a source file's bytes combined with
// any applicable binding-redirect rules. It is the cache-validity token:
// an index entry is valid only while its digest matches the current source.
type Digest [DigestSize]byte

// String returns the lowercase hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
