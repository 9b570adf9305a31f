package domain

// CodeObject is the portable compiled representation of a program module.
// It mirrors the shape the module compiler capability produces: the source
// filename recorded at compile time, the raw compiled body, and any nested
// code objects attached as constants (closures, class bodies, and the
// like). Filename is the only build-machine-specific field; the byte-code
// cache scrubs it before the object is persisted.
type CodeObject struct {
	Filename string       `cbor:"1,keyasint"`
	Name     string       `cbor:"2,keyasint"`
	Code     []byte       `cbor:"3,keyasint"`
	Consts   []CodeObject `cbor:"4,keyasint,omitempty"`
}
