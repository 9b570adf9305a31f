// Package winres reads and rewrites the manifest resource embedded in PE
// binaries. Parsing uses debug/pe for the outer structure; the resource
// directory inside .rsrc is walked by hand because the standard library
// does not model it.
package winres

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"os"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
)

// manifestResourceType is the RT_MANIFEST resource type ID.
const manifestResourceType = 24

const (
	resourceDirHeaderSize = 16
	resourceDirEntrySize  = 8
	subdirectoryFlag      = 0x80000000
)

// Editor implements ports.ResourceEditor.
type Editor struct{}

func NewEditor() *Editor {
	return &Editor{}
}

// ReadManifest returns the bytes of the first RT_MANIFEST resource.
func (*Editor) ReadManifest(path string) ([]byte, error) {
	data, loc, err := locateManifest(path)
	if err != nil {
		return nil, err
	}
	return data[loc.offset : loc.offset+loc.size], nil
}

// WriteManifest replaces the embedded manifest resource in place. The new
// manifest must fit in the existing resource slot; shorter content is
// padded with spaces, which XML parsers ignore. Growing the resource
// would require rebuilding the whole .rsrc section.
func (*Editor) WriteManifest(path string, manifest []byte) error {
	data, loc, err := locateManifest(path)
	if err != nil {
		return err
	}

	if len(manifest) > loc.size {
		return zerr.With(zerr.With(
			zerr.New("manifest resource too small for updated manifest"),
			"available", loc.size), "needed", len(manifest))
	}

	copy(data[loc.offset:], manifest)
	for i := loc.offset + len(manifest); i < loc.offset+loc.size; i++ {
		data[i] = ' '
	}

	return os.WriteFile(path, data, domain.CachedBinaryPerm)
}

type manifestLocation struct {
	offset int
	size   int
}

// locateManifest loads the whole image and resolves the file-offset span
// of its first RT_MANIFEST resource.
func locateManifest(path string) ([]byte, manifestLocation, error) {
	var loc manifestLocation

	data, err := os.ReadFile(path) //nolint:gosec // Path is inside the cache namespace
	if err != nil {
		return nil, loc, zerr.With(zerr.Wrap(err, "failed to read binary"), "path", path)
	}

	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, loc, zerr.With(domain.ErrNotPEImage, "path", path)
	}
	defer f.Close() //nolint:errcheck // Backed by a byte reader

	rsrc := f.Section(".rsrc")
	if rsrc == nil {
		return nil, loc, zerr.With(domain.ErrNoManifestResource, "path", path)
	}
	if int(rsrc.Offset)+int(rsrc.Size) > len(data) {
		return nil, loc, zerr.With(domain.ErrNotPEImage, "path", path)
	}
	dir := data[rsrc.Offset : rsrc.Offset+rsrc.Size]

	// Three directory levels: type, name and language. Only the type
	// level is filtered; the first entry wins on the levels below, which
	// matches how the single-manifest case is laid out in practice.
	typeDir, ok := findEntry(dir, 0, manifestResourceType)
	if !ok {
		return nil, loc, zerr.With(domain.ErrNoManifestResource, "path", path)
	}
	nameDir, ok := firstEntry(dir, typeDir)
	if !ok {
		return nil, loc, zerr.With(domain.ErrNoManifestResource, "path", path)
	}
	leaf, ok := firstEntry(dir, nameDir)
	if !ok {
		return nil, loc, zerr.With(domain.ErrNoManifestResource, "path", path)
	}
	if leaf+8 > len(dir) {
		return nil, loc, zerr.With(domain.ErrNotPEImage, "path", path)
	}

	rva := binary.LittleEndian.Uint32(dir[leaf:])
	size := binary.LittleEndian.Uint32(dir[leaf+4:])

	offset, ok := rvaToOffset(f, rva)
	if !ok || offset+int(size) > len(data) {
		return nil, loc, zerr.With(domain.ErrNotPEImage, "path", path)
	}

	loc.offset = offset
	loc.size = int(size)
	return data, loc, nil
}

// findEntry scans the directory table at dirOff for an ID entry matching
// id and returns the offset it points at (subdirectory or data entry).
func findEntry(dir []byte, dirOff int, id uint32) (int, bool) {
	named, ids, ok := entryCounts(dir, dirOff)
	if !ok {
		return 0, false
	}
	entries := dirOff + resourceDirHeaderSize
	for i := named; i < named+ids; i++ {
		off := entries + i*resourceDirEntrySize
		if off+resourceDirEntrySize > len(dir) {
			return 0, false
		}
		if binary.LittleEndian.Uint32(dir[off:]) == id {
			return int(binary.LittleEndian.Uint32(dir[off+4:]) &^ subdirectoryFlag), true
		}
	}
	return 0, false
}

// firstEntry returns the target offset of the first entry in the
// directory table at dirOff.
func firstEntry(dir []byte, dirOff int) (int, bool) {
	named, ids, ok := entryCounts(dir, dirOff)
	if !ok || named+ids == 0 {
		return 0, false
	}
	off := dirOff + resourceDirHeaderSize
	if off+resourceDirEntrySize > len(dir) {
		return 0, false
	}
	return int(binary.LittleEndian.Uint32(dir[off+4:]) &^ subdirectoryFlag), true
}

func entryCounts(dir []byte, dirOff int) (named, ids int, ok bool) {
	if dirOff < 0 || dirOff+resourceDirHeaderSize > len(dir) {
		return 0, 0, false
	}
	named = int(binary.LittleEndian.Uint16(dir[dirOff+12:]))
	ids = int(binary.LittleEndian.Uint16(dir[dirOff+14:]))
	return named, ids, true
}

func rvaToOffset(f *pe.File, rva uint32) (int, bool) {
	for _, s := range f.Sections {
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+s.VirtualSize {
			return int(rva - s.VirtualAddress + s.Offset), true
		}
	}
	return 0, false
}
