// Package inspect answers compression-compatibility questions about
// collected binaries.
package inspect

import (
	"bytes"
	"debug/pe"
	"os"
)

// guardCFFlag is the DllCharacteristics bit set for binaries built with
// Control Flow Guard.
const guardCFFlag = 0x4000

// qtPluginMarker is embedded in every Qt plugin's metadata section.
var qtPluginMarker = []byte("QTMETADATA")

// Inspector implements ports.BinaryInspector. All probes answer false on
// any read or parse failure; a binary that cannot be inspected is simply
// not exempted from compression.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// HasControlFlowGuard reports whether the PE image at path was linked
// with Control Flow Guard.
func (*Inspector) HasControlFlowGuard(path string) bool {
	f, err := pe.Open(path)
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	switch hdr := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		return hdr.DllCharacteristics&guardCFFlag != 0
	case *pe.OptionalHeader64:
		return hdr.DllCharacteristics&guardCFFlag != 0
	}
	return false
}

// IsQtPlugin reports whether the file carries the Qt plugin metadata
// marker.
func (*Inspector) IsQtPlugin(path string) bool {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the build manifest
	if err != nil {
		return false
	}
	return bytes.Contains(data, qtPluginMarker)
}
