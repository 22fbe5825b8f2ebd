// Package remap rewrites a batch's local term-ids into global term-ids
// in place, using a global dictionary built once from the merged term
// list.
package remap

import (
	"bufio"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/larose/forge/batch"
	"github.com/larose/forge/binfmt"
)

// headerBytes is the size of the batch index's one-word-wasted header:
// a uint32 length prefix of 1, followed by the uint32 doc count.
const headerBytes = 8

// Dictionary builds the global term string -> global term-id mapping
// from the merged term list. Callers build it once and drop it after
// every batch has been remapped.
func Dictionary(terms []string) map[string]uint32 {
	dict := make(map[string]uint32, len(terms))
	for id, term := range terms {
		dict[term] = uint32(id)
	}
	return dict
}

// Batch computes batch batchNumber's local-id -> global-id table from
// dict and rewrites every term-id in its binary index in place. The
// index file is mmapped RDWR so the rewrite needs no extra buffer the
// size of the file.
func Batch(outputBase string, batchNumber int, dict map[string]uint32) error {
	termsPath := batch.File(outputBase, batchNumber) + ".terms"
	localTerms, err := readLines(termsPath)
	if err != nil {
		return fmt.Errorf("remap: read %s: %w", termsPath, err)
	}

	mapping := make([]uint32, len(localTerms))
	for i, term := range localTerms {
		globalID, ok := dict[term]
		if !ok {
			return fmt.Errorf("remap: term %q not found in global dictionary", term)
		}
		mapping[i] = globalID
	}

	indexPath := batch.File(outputBase, batchNumber)
	file, err := os.OpenFile(indexPath, os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("remap: open %s: %w", indexPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("remap: stat %s: %w", indexPath, err)
	}
	if info.Size() < headerBytes {
		return fmt.Errorf("remap: %s is shorter than its header", indexPath)
	}
	if info.Size() == headerBytes {
		// Empty batch: header only, nothing to rewrite.
		return nil
	}

	data, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("remap: mmap %s: %w", indexPath, err)
	}
	defer data.Unmap()

	offset := uint64(headerBytes)
	size := uint64(len(data))
	for offset < size {
		length := binfmt.DecodeUint32At(data, offset)
		offset += 4

		for k := uint32(0); k < length; k++ {
			localID := binfmt.DecodeUint32At(data, offset)
			binfmt.EncodeUint32At(data, offset, mapping[localID])
			offset += 4
		}
	}

	return data.Flush()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
