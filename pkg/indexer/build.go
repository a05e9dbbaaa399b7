package indexer

import (
	"context"
	"fmt"
	"time"

	"parindex/pkg/metrics"
	"parindex/pkg/parser"
	"parindex/pkg/utils/stream"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type BuildOptions struct {
	// Workers is the number of partitions built in parallel. Zero means
	// DefaultWorkers.
	Workers    int
	Normalizer parser.Normalizer
	Metrics    *metrics.Metrics
}

// BuildIndex splits docs into one contiguous partition per worker, builds
// the partial indexes concurrently and merges them once all of them are
// done. Any partition error fails the whole build and no index is returned.
//
// The result only depends on the documents and their order, never on how
// the workers are scheduled.
func BuildIndex(ctx context.Context, docs []Document, opts BuildOptions) (*GlobalIndex, error) {
	workers := opts.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	if opts.Normalizer == nil {
		return nil, ErrNoNormalizer
	}

	partitions, err := Partitions(len(docs), workers)
	if err != nil {
		return nil, err
	}

	log.Info().Int("docs", len(docs)).Int("workers", workers).Msg("index build started")
	start := time.Now()

	partials := make([]*PartialIndex, len(partitions))
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range partitions {
		opts.Metrics.ObservePartition(p.Worker, p.Len())
		g.Go(func() error {
			producer := stream.NewArrayProducer(docs[p.Start:p.End])
			partial, err := BuildPartialIndex(gctx, p.Worker, producer, opts.Normalizer)
			if err != nil {
				return err
			}
			partials[p.Worker] = partial
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		opts.Metrics.ObserveBuildFailure()
		return nil, fmt.Errorf("build index: %w", err)
	}

	index := Merge(partials...)
	elapsed := time.Since(start)
	opts.Metrics.ObserveBuild(index.DocCount(), index.Len(), elapsed)

	log.Info().
		Int("docs", index.DocCount()).
		Int("terms", index.Len()).
		Dur("elapsed", elapsed).
		Msg("index build completed")

	return index, nil
}

// BuildIndexDir indexes the files with extension ext directly inside srcDir,
// in lexical order of their names.
func BuildIndexDir(ctx context.Context, srcDir, ext string, opts BuildOptions) (*GlobalIndex, error) {
	docs, err := parser.LoadDir(srcDir, ext)
	if err != nil {
		return nil, err
	}
	return BuildIndex(ctx, Documents(docs), opts)
}
