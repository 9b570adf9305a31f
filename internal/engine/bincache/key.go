package bincache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

// Fixed bucket names used when no signing identity or entitlements file
// is configured on the darwin family.
const (
	adhocBucket          = "adhoc"
	noEntitlementsBucket = "no-entitlements"
)

// namespaceDir maps the cache-key tuple onto a directory path. Two
// artifacts processed with different flags in this tuple must never share
// a cache slot, so every element of the tuple lands in the path: the
// strip/compress flags, the toolchain tag and word size, the optional
// target architecture, and on darwin a bucket per signing identity and
// per entitlements content.
func (c *Cache) namespaceDir(strip, compress bool, req Request) (string, error) {
	dir := filepath.Join(c.cfg.CacheDir, fmt.Sprintf(
		"bincache%d%d_%s_%d", boolDigit(strip), boolDigit(compress), c.cfg.ToolchainTag, c.cfg.WordSize,
	))

	if req.TargetArch != "" {
		dir = filepath.Join(dir, req.TargetArch)
	}

	if c.cfg.Platform.IsDarwin() {
		if req.CodesignIdentity != "" {
			// Hash the identity so arbitrary characters cannot leak
			// into the path.
			sum := blake3.Sum256([]byte(req.CodesignIdentity))
			dir = filepath.Join(dir, hex.EncodeToString(sum[:]))
		} else {
			dir = filepath.Join(dir, adhocBucket)
		}

		if req.EntitlementsFile != "" {
			data, err := os.ReadFile(req.EntitlementsFile) //nolint:gosec // Operator-configured path
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to read entitlements file"), "path", req.EntitlementsFile)
			}
			sum := blake3.Sum256(data)
			dir = filepath.Join(dir, hex.EncodeToString(sum[:]))
		} else {
			dir = filepath.Join(dir, noEntitlementsBucket)
		}
	}

	return dir, nil
}

// indexKey normalizes the cache key within a namespace: the caller's
// destination-name hint when given (avoiding collisions between
// same-named files from different packages), the source basename
// otherwise, case-folded on the case-insensitive platform family.
func (c *Cache) indexKey(req Request) string {
	key := req.DestName
	if key == "" {
		key = filepath.Base(req.Source)
	}
	if c.cfg.Platform.IsWindows() {
		key = strings.ToLower(key)
	}
	return filepath.Clean(key)
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}
