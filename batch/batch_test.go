package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larose/forge/binfmt"
	"github.com/larose/forge/content"
	"github.com/larose/forge/record"
)

func TestFileNaming(t *testing.T) {
	assert.Equal(t, "/tmp/out.batch.0", File("/tmp/out", 0))
	assert.Equal(t, "/tmp/out.batch.7", File("/tmp/out", 7))
}

func TestRunWritesFourSidecars(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")

	records := []record.DocumentRecord{
		record.New("d0", "", []byte("the quick brown fox"), true),
		record.New("d1", "", []byte("the lazy dog"), true),
	}

	bp := Process{BatchNumber: 0, Records: records, FirstDocument: 0, OutputBase: outputBase}
	require.NoError(t, Run(bp, content.Plaintext, content.Lowercase))

	basename := File(outputBase, 0)
	for _, suffix := range []string{"", ".documents", ".urls", ".terms"} {
		_, err := os.Stat(basename + suffix)
		assert.NoErrorf(t, err, "expected %s%s to exist", basename, suffix)
	}

	terms, err := os.ReadFile(basename + ".terms")
	require.NoError(t, err)
	assert.Equal(t, "the\nquick\nbrown\nfox\nlazy\ndog\n", string(terms))

	docs, err := os.ReadFile(basename + ".documents")
	require.NoError(t, err)
	assert.Equal(t, "d0\nd1\n", string(docs))

	index, err := os.Open(basename)
	require.NoError(t, err)
	defer index.Close()

	header, err := binfmt.ReadUint32s(index)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, header)

	d0, err := binfmt.ReadUint32s(index)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 3}, d0)

	d1, err := binfmt.ReadUint32s(index)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 4, 5}, d1)
}

func TestRunEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")

	bp := Process{BatchNumber: 3, Records: nil, FirstDocument: 9, OutputBase: outputBase}
	require.NoError(t, Run(bp, content.Plaintext, content.Lowercase))

	basename := File(outputBase, 3)
	index, err := os.Open(basename)
	require.NoError(t, err)
	defer index.Close()

	header, err := binfmt.ReadUint32s(index)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, header)

	terms, err := os.ReadFile(basename + ".terms")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestRunIsRerunnable(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")
	records := []record.DocumentRecord{record.New("d0", "", []byte("a"), true)}
	bp := Process{BatchNumber: 0, Records: records, FirstDocument: 0, OutputBase: outputBase}

	require.NoError(t, Run(bp, content.Plaintext, content.Lowercase))
	require.NoError(t, Run(bp, content.Plaintext, content.Lowercase))
}
