// Package concat implements the final phase: write the global header,
// append every (already remapped) batch index in batch-number order,
// copy the .documents/.urls sidecars through, and delete the batch
// artifacts.
package concat

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/larose/forge/batch"
	"github.com/larose/forge/binfmt"
)

// batchHeaderBytes is the byte width of a batch index's own header,
// skipped when its documents are appended into the global index.
const batchHeaderBytes = 8

// Run concatenates batchCount batches into the index, ".documents" and
// ".urls" output files named by outputBase, then removes every batch
// artifact. The ".terms" output is written by the merge phase, not here.
func Run(outputBase string, documentCount, batchCount int) error {
	if err := concatSidecar(outputBase, ".documents", batchCount); err != nil {
		return err
	}
	if err := concatSidecar(outputBase, ".urls", batchCount); err != nil {
		return err
	}

	out, err := os.Create(outputBase)
	if err != nil {
		return fmt.Errorf("concat: create %s: %w", outputBase, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := binfmt.WriteHeader(w, uint32(documentCount)); err != nil {
		return fmt.Errorf("concat: write header: %w", err)
	}

	for i := 0; i < batchCount; i++ {
		if err := appendBatchIndex(w, batch.File(outputBase, i)); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("concat: flush %s: %w", outputBase, err)
	}

	return removeBatches(outputBase, batchCount)
}

func concatSidecar(outputBase, suffix string, batchCount int) error {
	out, err := os.Create(outputBase + suffix)
	if err != nil {
		return fmt.Errorf("concat: create %s%s: %w", outputBase, suffix, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for i := 0; i < batchCount; i++ {
		if err := copyFileInto(w, batch.File(outputBase, i)+suffix); err != nil {
			return err
		}
	}
	return w.Flush()
}

func copyFileInto(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("concat: open %s: %w", path, err)
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func appendBatchIndex(w io.Writer, indexPath string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("concat: open %s: %w", indexPath, err)
	}
	defer f.Close()

	if _, err := f.Seek(batchHeaderBytes, io.SeekStart); err != nil {
		return fmt.Errorf("concat: seek %s: %w", indexPath, err)
	}

	_, err = io.Copy(w, f)
	return err
}

func removeBatches(outputBase string, batchCount int) error {
	for i := 0; i < batchCount; i++ {
		basename := batch.File(outputBase, i)
		for _, suffix := range [...]string{"", ".documents", ".urls", ".terms"} {
			if err := os.Remove(basename + suffix); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("concat: remove %s%s: %w", basename, suffix, err)
			}
		}
	}
	return nil
}
