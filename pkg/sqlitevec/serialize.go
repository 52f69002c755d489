package sqlitevec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SerializeFloat32 converts a float32 slice into the little-endian blob
// format sqlite-vec expects for float vectors. The result is exactly
// Float32ByteSize(len(vector)) bytes long.
func SerializeFloat32(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// DeserializeFloat32 converts a blob produced by SerializeFloat32, or read
// back from a float vector column, into a float32 slice.
func DeserializeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid float32 vector blob length %d (not a multiple of 4)", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}

// SerializeInt8 converts an int8 slice into the blob format sqlite-vec
// expects for int8 vectors, one byte per element.
func SerializeInt8(vector []int8) []byte {
	blob := make([]byte, len(vector))
	for i, v := range vector {
		blob[i] = byte(v)
	}
	return blob
}

// DeserializeInt8 converts an int8 vector blob back into an int8 slice.
func DeserializeInt8(blob []byte) []int8 {
	vector := make([]int8, len(blob))
	for i, b := range blob {
		vector[i] = int8(b)
	}
	return vector
}

// SerializeBit packs a slice of boolean elements into the bit vector blob
// format: element i occupies bit i%8 of byte i/8. The result is exactly
// BitByteSize(len(bits)) bytes long.
func SerializeBit(bits []bool) []byte {
	blob := make([]byte, BitByteSize(len(bits)))
	for i, set := range bits {
		if set {
			blob[i/8] |= 1 << (i % 8)
		}
	}
	return blob
}

// DeserializeBit unpacks a bit vector blob into dims boolean elements.
func DeserializeBit(blob []byte, dims int) ([]bool, error) {
	if len(blob) != BitByteSize(dims) {
		return nil, fmt.Errorf("invalid bit vector blob length %d for %d dimensions (want %d)",
			len(blob), dims, BitByteSize(dims))
	}
	bits := make([]bool, dims)
	for i := range bits {
		bits[i] = blob[i/8]&(1<<(i%8)) != 0
	}
	return bits, nil
}
