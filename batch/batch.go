// Package batch implements the batch processor: it consumes a
// fixed-size vector of records and emits the four per-batch files that
// the merge/remap/concat phases later consume.
package batch

import (
	"bufio"
	"fmt"
	"os"

	"github.com/larose/forge/binfmt"
	"github.com/larose/forge/content"
	"github.com/larose/forge/record"
)

// Process is one unit of ingestion work: a slice of records destined
// for batch BatchNumber, whose first document is assigned id
// FirstDocument.
type Process struct {
	BatchNumber   int
	Records       []record.DocumentRecord
	FirstDocument record.DocumentId
	OutputBase    string
}

// File returns the basename of a batch's binary index file; its
// sidecars add the ".documents", ".urls", ".terms" suffixes.
func File(outputBase string, batchNumber int) string {
	return fmt.Sprintf("%s.batch.%d", outputBase, batchNumber)
}

// Run processes one batch to completion. It is a pure function of its
// inputs and the files it writes: batches are keyed by BatchNumber, so
// two batches running concurrently never touch the same path and need
// no locking between them.
func Run(bp Process, split content.Splitter, normalize content.Normalizer) error {
	basename := File(bp.OutputBase, bp.BatchNumber)

	indexFile, err := os.Create(basename)
	if err != nil {
		return fmt.Errorf("batch %d: create index: %w", bp.BatchNumber, err)
	}
	defer indexFile.Close()
	index := bufio.NewWriter(indexFile)

	docsFile, err := os.Create(basename + ".documents")
	if err != nil {
		return fmt.Errorf("batch %d: create documents: %w", bp.BatchNumber, err)
	}
	defer docsFile.Close()
	docs := bufio.NewWriter(docsFile)

	urlsFile, err := os.Create(basename + ".urls")
	if err != nil {
		return fmt.Errorf("batch %d: create urls: %w", bp.BatchNumber, err)
	}
	defer urlsFile.Close()
	urls := bufio.NewWriter(urlsFile)

	termsFile, err := os.Create(basename + ".terms")
	if err != nil {
		return fmt.Errorf("batch %d: create terms: %w", bp.BatchNumber, err)
	}
	defer termsFile.Close()
	terms := bufio.NewWriter(termsFile)

	if err := binfmt.WriteHeader(index, uint32(len(bp.Records))); err != nil {
		return fmt.Errorf("batch %d: write header: %w", bp.BatchNumber, err)
	}

	dict := make(map[string]uint32, len(bp.Records)*8)
	var termIds []uint32

	for _, rec := range bp.Records {
		if _, err := fmt.Fprintln(docs, rec.Trecid()); err != nil {
			return fmt.Errorf("batch %d: write trecid: %w", bp.BatchNumber, err)
		}
		if _, err := fmt.Fprintln(urls, rec.URL()); err != nil {
			return fmt.Errorf("batch %d: write url: %w", bp.BatchNumber, err)
		}

		termIds = termIds[:0]
		var writeErr error

		split(rec.Content(), func(raw string) {
			if writeErr != nil {
				return
			}

			term := normalize(raw)
			if term == "" {
				return
			}

			id, exists := dict[term]
			if !exists {
				id = uint32(len(dict))
				dict[term] = id
				if _, err := fmt.Fprintln(terms, term); err != nil {
					writeErr = err
					return
				}
			}

			termIds = append(termIds, id)
		})
		if writeErr != nil {
			return fmt.Errorf("batch %d: write term: %w", bp.BatchNumber, writeErr)
		}

		if err := binfmt.WriteUint32s(index, termIds); err != nil {
			return fmt.Errorf("batch %d: write document: %w", bp.BatchNumber, err)
		}
	}

	if err := index.Flush(); err != nil {
		return fmt.Errorf("batch %d: flush index: %w", bp.BatchNumber, err)
	}
	if err := docs.Flush(); err != nil {
		return fmt.Errorf("batch %d: flush documents: %w", bp.BatchNumber, err)
	}
	if err := urls.Flush(); err != nil {
		return fmt.Errorf("batch %d: flush urls: %w", bp.BatchNumber, err)
	}
	if err := terms.Flush(); err != nil {
		return fmt.Errorf("batch %d: flush terms: %w", bp.BatchNumber, err)
	}

	return nil
}
