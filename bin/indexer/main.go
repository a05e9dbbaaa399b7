package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"parindex/pkg/config"
	"parindex/pkg/indexer"
	"parindex/pkg/parser"
	"parindex/pkg/utils/logger"
	"parindex/pkg/utils/sys"

	"github.com/rs/zerolog/log"
)

// printIndex writes every term with its posting list, in the order the terms
// were first indexed.
func printIndex(out io.Writer, index *indexer.GlobalIndex) error {
	var err error
	index.Each(func(term string, list indexer.PostingList) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(out, "%s: %v\n", term, list)
	})
	return err
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Profile.Trace != "" {
		stopTrace, err := sys.StartTrace(cfg.Profile.Trace)
		if err != nil {
			return err
		}
		defer func() {
			if err := stopTrace(); err != nil {
				log.Error().Err(err).Msg("failed to stop trace")
			}
		}()
	}

	sys.LogMemoryUsage()
	start := time.Now()
	index, err := indexer.BuildIndexDir(ctx, cfg.Index.Dir, cfg.Index.Extension, indexer.BuildOptions{
		Workers:    cfg.Index.Workers,
		Normalizer: parser.NewTextNormalizer(),
	})
	if err != nil {
		return err
	}
	log.Info().
		Int("workers", cfg.Index.Workers).
		Dur("elapsed", time.Since(start)).
		Msg("inverted index created")
	sys.LogMemoryUsage()

	if err := printIndex(out, index); err != nil {
		return fmt.Errorf("print index: %w", err)
	}

	indexer.LogStats(index.Stats())
	log.Info().Str("digest", index.Digest()).Msg("index digest")

	if cfg.Profile.Memory != "" {
		if err := sys.WriteMemoryProfile(cfg.Profile.Memory); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("index build failed")
	}
}
