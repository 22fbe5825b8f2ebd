package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larose/forge/batch"
)

func writeTerms(t *testing.T, outputBase string, batchNumber int, terms []string) {
	t.Helper()
	path := batch.File(outputBase, batchNumber) + ".terms"
	var content string
	for _, term := range terms {
		content += term + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestTermsMergesSortsAndDedups(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")

	writeTerms(t, outputBase, 0, []string{"the", "quick", "brown", "fox", "the", "dog"})
	writeTerms(t, outputBase, 1, []string{"lazy", "dog", "the"})

	got, err := Terms(outputBase, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"brown", "dog", "fox", "lazy", "quick", "the"}, got)

	onDisk, err := os.ReadFile(outputBase + ".terms")
	require.NoError(t, err)
	assert.Equal(t, "brown\ndog\nfox\nlazy\nquick\nthe\n", string(onDisk))
}

func TestTermsSingleBatch(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")
	writeTerms(t, outputBase, 0, []string{"b", "a", "c"})

	got, err := Terms(outputBase, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTermsEmptyBatchesProduceEmptyGlobalList(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")
	writeTerms(t, outputBase, 0, nil)
	writeTerms(t, outputBase, 1, nil)

	got, err := Terms(outputBase, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTermsManyBatchesOddLevelStack(t *testing.T) {
	dir := t.TempDir()
	outputBase := filepath.Join(dir, "out")

	batches := [][]string{
		{"d", "b"},
		{"c", "a"},
		{"e"},
	}
	for i, terms := range batches {
		writeTerms(t, outputBase, i, terms)
	}

	got, err := Terms(outputBase, len(batches))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestMergeSequentialIsStableUnderDuplicates(t *testing.T) {
	a := []string{"a", "b", "b", "d"}
	b := []string{"b", "c"}
	assert.Equal(t, []string{"a", "b", "b", "b", "c", "d"}, mergeSequential(a, b))
}
