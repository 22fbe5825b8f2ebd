// Package forge builds a compact, integer-keyed forward index from a
// stream of heterogeneous document records: bounded-concurrency
// ingestion produces per-batch local indexes, a parallel external merge
// unifies the per-batch term dictionaries, and a remap/concatenate
// phase rewrites local term-ids into global ones and stitches every
// batch into one output file.
package forge

import (
	"context"
	"fmt"
	"time"

	"github.com/larose/forge/concat"
	"github.com/larose/forge/content"
	"github.com/larose/forge/ingest"
	"github.com/larose/forge/internal/metrics"
	"github.com/larose/forge/merge"
	"github.com/larose/forge/record"
	"github.com/larose/forge/remap"
)

// Config is the caller-provided callback and numeric configuration
// surface. The core assumes nothing about record formats, term
// normalization, or how OutputBase and the threading numbers were
// chosen — that's the caller's job.
type Config struct {
	Source     record.Source
	Split      content.Splitter
	Normalize  content.Normalizer
	BatchSize  int
	Threads    int
	OutputBase string
}

// Build runs the full three-phase pipeline. On success, the four
// sibling output files named by cfg.OutputBase exist and no batch
// artifacts remain. m must be non-nil; construct one with metrics.New.
func Build(ctx context.Context, cfg Config, m *metrics.Metrics) error {
	params := ingest.Params{
		BatchSize:  cfg.BatchSize,
		Threads:    cfg.Threads,
		OutputBase: cfg.OutputBase,
	}

	ingestResult, err := timePhase(m, "ingest", func() (ingest.Result, error) {
		return ingest.Run(ctx, cfg.Source, params, cfg.Split, cfg.Normalize, m)
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	terms, err := timePhase(m, "merge", func() ([]string, error) {
		return merge.Terms(cfg.OutputBase, ingestResult.BatchCount)
	})
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	m.TermsGlobal.Set(float64(len(terms)))

	dict := remap.Dictionary(terms)
	terms = nil // the global dictionary is all remap needs from here on

	if _, err := timePhase(m, "remap", func() (struct{}, error) {
		for i := 0; i < ingestResult.BatchCount; i++ {
			if err := remap.Batch(cfg.OutputBase, i, dict); err != nil {
				return struct{}{}, fmt.Errorf("batch %d: %w", i, err)
			}
		}
		return struct{}{}, nil
	}); err != nil {
		return fmt.Errorf("remap: %w", err)
	}

	if _, err := timePhase(m, "concat", func() (struct{}, error) {
		return struct{}{}, concat.Run(cfg.OutputBase, ingestResult.DocumentCount, ingestResult.BatchCount)
	}); err != nil {
		return fmt.Errorf("concat: %w", err)
	}

	return nil
}

func timePhase[T any](m *metrics.Metrics, phase string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	m.PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	return result, err
}
