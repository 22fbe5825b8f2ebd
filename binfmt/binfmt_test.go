package binfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadUint32sRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	values := []uint32{5, 4, 0, 2}

	require.NoError(t, WriteUint32s(&buf, values))

	got, err := ReadUint32s(&buf)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestWriteUint32sEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint32s(&buf, nil))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes())

	got, err := ReadUint32s(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteHeaderIsOneWordRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 3))
	assert.Equal(t, []byte{1, 0, 0, 0, 3, 0, 0, 0}, buf.Bytes())
}

func TestDecodeEncodeUint32AtRoundTrip(t *testing.T) {
	data := make([]byte, 8)
	EncodeUint32At(data, 4, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), DecodeUint32At(data, 4))
}

func TestLittleEndianByteOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint32s(&buf, []uint32{1}))
	b := buf.Bytes()
	// length word then value word, both little-endian.
	assert.Equal(t, []byte{1, 0, 0, 0, 1, 0, 0, 0}, b)
}
