package bytecode

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/codec"
	"github.com/balebuild/bale/internal/core/domain"
)

// Record layout: a 4-byte magic derived from the toolchain tag, a 4-byte
// little-endian flag word, 8 reserved zero bytes, then the serialized
// code object. The flag word marks the record as hash-based with the
// source hash unchecked, so loaders never re-validate against the source.
const (
	recordHeaderSize = 16
	recordFlags      = uint32(0b01)
)

// Magic derives the 4-byte record magic for a toolchain tag. Records
// written under one toolchain are invisible to every other.
func Magic(toolchainTag string) [4]byte {
	var m [4]byte
	binary.LittleEndian.PutUint32(m[:], uint32(xxhash.Sum64String(toolchainTag)))
	return m
}

func encodeRecord(magic [4]byte, code *domain.CodeObject) ([]byte, error) {
	payload, err := codec.Marshal(code)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to serialize code object")
	}
	buf := make([]byte, recordHeaderSize, recordHeaderSize+len(payload))
	copy(buf, magic[:])
	binary.LittleEndian.PutUint32(buf[4:], recordFlags)
	return append(buf, payload...), nil
}

func decodeRecord(magic [4]byte, data []byte) (*domain.CodeObject, error) {
	if len(data) < recordHeaderSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, domain.ErrMagicMismatch
	}
	var code domain.CodeObject
	if err := codec.Unmarshal(data[recordHeaderSize:], &code); err != nil {
		return nil, zerr.Wrap(err, "failed to decode code object")
	}
	return &code, nil
}
