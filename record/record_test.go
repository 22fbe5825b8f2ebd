package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextSourceSplitsOnFirstTab(t *testing.T) {
	src := NewPlaintextSource(strings.NewReader("d0\tthe quick fox\nd1\tlazy dog\n"))

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "d0", rec.Trecid())
	assert.Equal(t, "the quick fox", string(rec.Content()))
	assert.True(t, rec.Valid())

	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "d1", rec.Trecid())
	assert.True(t, rec.Valid())

	_, err = src.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestPlaintextSourceLineWithoutTabIsInvalid(t *testing.T) {
	src := NewPlaintextSource(strings.NewReader("no tab here\n"))

	rec, err := src.Next()
	require.NoError(t, err)
	assert.False(t, rec.Valid())
}

func TestJSONLSourceDecodesEachLine(t *testing.T) {
	src := NewJSONLSource(strings.NewReader(
		`{"trecid":"d0","url":"http://a","content":"hello"}` + "\n",
	))

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "d0", rec.Trecid())
	assert.Equal(t, "http://a", rec.URL())
	assert.Equal(t, "hello", string(rec.Content()))
	assert.True(t, rec.Valid())

	_, err = src.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestJSONLSourceMalformedLineIsInvalid(t *testing.T) {
	src := NewJSONLSource(strings.NewReader("not json\n"))

	rec, err := src.Next()
	require.NoError(t, err)
	assert.False(t, rec.Valid())
}

func TestDecodeJSONDocumentMalformedIsInvalid(t *testing.T) {
	rec := decodeJSONDocument([]byte("not json"))
	assert.False(t, rec.Valid())
}

func TestDecodeJSONDocumentWellFormed(t *testing.T) {
	rec := decodeJSONDocument([]byte(`{"trecid":"d0","url":"http://a","content":"hello"}`))
	assert.True(t, rec.Valid())
	assert.Equal(t, "d0", rec.Trecid())
	assert.Equal(t, "http://a", rec.URL())
	assert.Equal(t, "hello", string(rec.Content()))
}

func TestNewRecordAccessors(t *testing.T) {
	rec := New("t", "u", []byte("c"), true)
	assert.Equal(t, "t", rec.Trecid())
	assert.Equal(t, "u", rec.URL())
	assert.Equal(t, []byte("c"), rec.Content())
	assert.True(t, rec.Valid())
}
