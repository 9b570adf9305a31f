// Package cas implements the on-disk stores backing the binary artifact
// cache: the per-namespace content-digest index and the build state.
package cas

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rogpeppe/go-internal/lockedfile"
	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/codec"
	"github.com/balebuild/bale/internal/core/domain"
)

// IndexFileName is the index file kept in every cache-key namespace
// directory.
const IndexFileName = "index.dat"

// IndexStore loads and persists the basename-to-digest index of a cache
// namespace. Access goes through an advisory file lock so concurrent
// builds sharing a cache root do not tear the read-modify-write cycle;
// single-process behavior is unchanged.
type IndexStore struct{}

// NewIndexStore creates a new IndexStore.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Load reads the index of the given namespace directory. A missing index
// yields an empty map. A present-but-undecodable index is an error and is
// never deleted here: deleting it would mask recurring corruption.
func (s *IndexStore) Load(dir string) (map[string]domain.Digest, error) {
	path := filepath.Join(dir, IndexFileName)

	data, err := lockedfile.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]domain.Digest{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read cache index"), "path", path)
	}

	var raw map[string][]byte
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(domain.ErrCorruptIndex, "path", path)
	}

	index := make(map[string]domain.Digest, len(raw))
	for name, sum := range raw {
		if len(sum) != domain.DigestSize {
			return nil, zerr.With(domain.ErrCorruptIndex, "path", path)
		}
		index[name] = domain.Digest(sum)
	}
	return index, nil
}

// Save writes the index of the given namespace directory, creating the
// directory if needed.
func (s *IndexStore) Save(dir string, index map[string]domain.Digest) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", dir)
	}

	raw := make(map[string][]byte, len(index))
	for name, digest := range index {
		raw[name] = digest[:]
	}

	data, err := codec.Marshal(raw)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache index")
	}

	path := filepath.Join(dir, IndexFileName)
	if err := lockedfile.Write(path, bytes.NewReader(data), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cache index"), "path", path)
	}
	return nil
}
