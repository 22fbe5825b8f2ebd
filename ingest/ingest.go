// Package ingest implements the ingestion driver: it pulls records off
// a Source, groups them into batches, and dispatches batch processors
// under a bounded-concurrency gate.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/larose/forge/batch"
	"github.com/larose/forge/content"
	"github.com/larose/forge/internal/metrics"
	"github.com/larose/forge/record"
)

// ErrConfigInvalid reports a fatal misconfiguration: at least one
// reader thread and at least one worker thread are both required.
var ErrConfigInvalid = errors.New("ingest: invalid configuration")

// Params is the driver's numeric configuration, validated before any
// record is read.
type Params struct {
	BatchSize  int
	Threads    int
	OutputBase string
}

func (p Params) validate() error {
	if p.Threads < 2 {
		return fmt.Errorf("%w: threads must be >= 2, got %d", ErrConfigInvalid, p.Threads)
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrConfigInvalid, p.BatchSize)
	}
	return nil
}

// Result summarizes a completed ingestion pass.
type Result struct {
	DocumentCount int
	BatchCount    int

	// SkippedPositions holds the 0-based source positions the Source
	// reported as invalid. It's diagnostic only — these positions are
	// never counted towards DocumentCount, and nothing downstream reads
	// this bitmap back.
	SkippedPositions *roaring.Bitmap
}

// Run reads records from src, groups them into batches of
// Params.BatchSize, and dispatches batch.Run under a semaphore sized
// 2*(Threads-1). It blocks until every dispatched batch has completed,
// whether or not the build ultimately succeeds.
func Run(ctx context.Context, src record.Source, params Params, split content.Splitter, normalize content.Normalizer, m *metrics.Metrics) (Result, error) {
	if err := params.validate(); err != nil {
		return Result{}, err
	}

	group, gctx := errgroup.WithContext(ctx)
	gate := semaphore.NewWeighted(int64(2 * (params.Threads - 1)))

	var (
		firstDocument record.DocumentId
		batchNumber   int
		buffer        []record.DocumentRecord
		position      int
	)
	skipped := roaring.NewBitmap()

	dispatch := func(records []record.DocumentRecord) error {
		if err := gate.Acquire(gctx, 1); err != nil {
			return err
		}

		bp := batch.Process{
			BatchNumber:   batchNumber,
			Records:       records,
			FirstDocument: firstDocument,
			OutputBase:    params.OutputBase,
		}
		m.BatchesDispatched.Inc()

		group.Go(func() error {
			defer gate.Release(1)

			if err := batch.Run(bp, split, normalize); err != nil {
				return fmt.Errorf("batch %d: %w", bp.BatchNumber, err)
			}

			m.BatchesCompleted.Inc()
			m.DocumentsIndexed.Add(float64(len(bp.Records)))
			return nil
		})

		firstDocument += record.DocumentId(len(records))
		batchNumber++
		return nil
	}

readLoop:
	for {
		select {
		case <-gctx.Done():
			break readLoop
		default:
		}

		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, record.ErrEndOfStream) {
				break readLoop
			}
			if werr := group.Wait(); werr != nil {
				return Result{}, werr
			}
			return Result{}, fmt.Errorf("ingest: read record %d: %w", position, err)
		}

		pos := position
		position++

		if !rec.Valid() {
			skipped.Add(uint32(pos))
			m.RecordsSkipped.Inc()
			continue
		}

		buffer = append(buffer, rec)
		if len(buffer) == params.BatchSize {
			batchRecords := buffer
			buffer = nil
			if err := dispatch(batchRecords); err != nil {
				if werr := group.Wait(); werr != nil {
					return Result{}, werr
				}
				return Result{}, fmt.Errorf("ingest: dispatch batch %d: %w", batchNumber, err)
			}
		}
	}

	// The final batch is always dispatched, even when empty: an empty
	// terminal batch is a valid, zero-document batch file.
	if err := dispatch(buffer); err != nil {
		if werr := group.Wait(); werr != nil {
			return Result{}, werr
		}
		return Result{}, fmt.Errorf("ingest: dispatch final batch: %w", err)
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		DocumentCount:    int(firstDocument),
		BatchCount:       batchNumber,
		SkippedPositions: skipped,
	}, nil
}
