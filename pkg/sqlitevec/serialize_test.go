package sqlitevec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeFloat32(t *testing.T) {
	vector := []float32{1.0, -2.5, 0.0}
	blob := SerializeFloat32(vector)

	// Blob length must equal the byte-size contract for the encoding.
	require.Equal(t, Float32ByteSize(len(vector)), len(blob))

	// 1.0 is 0x3f800000, little-endian on the wire.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, blob[:4])

	decoded, err := DeserializeFloat32(blob)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestDeserializeFloat32InvalidLength(t *testing.T) {
	_, err := DeserializeFloat32([]byte{0x00, 0x00, 0x80})
	require.Error(t, err)
}

func TestSerializeInt8(t *testing.T) {
	vector := []int8{0, 1, -1, 127, -128}
	blob := SerializeInt8(vector)

	require.Equal(t, Int8ByteSize(len(vector)), len(blob))
	assert.Equal(t, vector, DeserializeInt8(blob))
}

func TestSerializeBit(t *testing.T) {
	// Element i lives at bit i%8 of byte i/8.
	bits := []bool{true, false, true, false, false, false, false, false, true}
	blob := SerializeBit(bits)

	require.Equal(t, BitByteSize(len(bits)), len(blob))
	assert.Equal(t, []byte{0b00000101, 0b00000001}, blob)

	decoded, err := DeserializeBit(blob, len(bits))
	require.NoError(t, err)
	assert.Equal(t, bits, decoded)
}

func TestSerializeBitLengths(t *testing.T) {
	for _, dims := range []int{0, 1, 7, 8, 9, 100} {
		blob := SerializeBit(make([]bool, dims))
		assert.Equal(t, BitByteSize(dims), len(blob), "dims=%d", dims)
	}
}

func TestDeserializeBitInvalidLength(t *testing.T) {
	_, err := DeserializeBit([]byte{0x00}, 9)
	require.Error(t, err)
}
