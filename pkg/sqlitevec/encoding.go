package sqlitevec

import (
	"errors"
	"fmt"
)

// ErrUnknownEncoding is returned when an encoding name doesn't match any
// supported vector encoding.
var ErrUnknownEncoding = errors.New("unknown vector encoding")

// Encoding identifies the fixed-width binary representation of one vector
// element. The set is closed; it mirrors the element types the sqlite-vec
// extension accepts in vec0 column declarations.
type Encoding int

const (
	// EncodingFloat32 stores each element as a 4-byte IEEE 754
	// single-precision value.
	EncodingFloat32 Encoding = iota
	// EncodingInt8 stores each element as one signed byte.
	EncodingInt8
	// EncodingBit packs one bit per element into bytes, partial bytes
	// rounded up.
	EncodingBit
)

func (e Encoding) String() string {
	switch e {
	case EncodingFloat32:
		return "float32"
	case EncodingInt8:
		return "int8"
	case EncodingBit:
		return "bit"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding converts an encoding name, as stored in a collection row
// or written by a caller, back into an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "float32":
		return EncodingFloat32, nil
	case "int8":
		return EncodingInt8, nil
	case "bit":
		return EncodingBit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// Float32ByteSize returns the storage footprint in bytes of a float32
// vector with dims elements: 4 bytes per element.
func Float32ByteSize(dims int) int {
	return dims * 4
}

// Int8ByteSize returns the storage footprint in bytes of an int8 vector
// with dims elements: 1 byte per element.
func Int8ByteSize(dims int) int {
	return dims
}

// BitByteSize returns the storage footprint in bytes of a bit vector with
// dims elements: one bit per element packed into bytes, rounded up so a
// partial byte is never truncated.
func BitByteSize(dims int) int {
	return (dims + 7) / 8
}

// ByteSize returns the exact number of bytes a vector of dims elements
// occupies under this encoding. It is a pure function of its inputs: the
// formulas determine the buffer sizes the extension reads and writes, so
// they must hold bit for bit. The dimension count is taken as given; a
// negative count is the caller's error and simply has the formula applied
// to it. Values outside the closed enum size to zero, so a corrupted
// encoding fails the blob-size contract instead of reading as float32.
func (e Encoding) ByteSize(dims int) int {
	switch e {
	case EncodingFloat32:
		return Float32ByteSize(dims)
	case EncodingInt8:
		return Int8ByteSize(dims)
	case EncodingBit:
		return BitByteSize(dims)
	default:
		return 0
	}
}

// ColumnType renders the vec0 column type declaration for this encoding
// and dimensionality, e.g. "float[384]" or "bit[1024]". Values outside
// the closed enum render the empty string, which no vec0 DDL accepts.
func (e Encoding) ColumnType(dims int) string {
	switch e {
	case EncodingFloat32:
		return fmt.Sprintf("float[%d]", dims)
	case EncodingInt8:
		return fmt.Sprintf("int8[%d]", dims)
	case EncodingBit:
		return fmt.Sprintf("bit[%d]", dims)
	default:
		return ""
	}
}
