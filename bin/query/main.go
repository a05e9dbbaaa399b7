package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parindex/pkg/config"
	"parindex/pkg/engine"
	"parindex/pkg/indexer"
	"parindex/pkg/metrics"
	"parindex/pkg/parser"
	"parindex/pkg/utils/logger"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
)

// buildEngine indexes the configured corpus and wraps the result in a query
// engine.
func buildEngine(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*engine.Engine, error) {
	normalizer := parser.NewTextNormalizer()

	start := time.Now()
	index, err := indexer.BuildIndexDir(ctx, cfg.Index.Dir, cfg.Index.Extension, indexer.BuildOptions{
		Workers:    cfg.Index.Workers,
		Normalizer: normalizer,
		Metrics:    m,
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("dir", cfg.Index.Dir).
		Int("workers", cfg.Index.Workers).
		Dur("elapsed", time.Since(start)).
		Msg("inverted index created")
	indexer.LogStats(index.Stats())
	log.Info().Str("digest", index.Digest()).Msg("index digest")

	opts := engine.Options{
		CacheSize: cfg.Query.CacheSize,
		Metrics:   m,
	}
	if cfg.Query.Normalize {
		opts.QueryNormalizer = normalizer
	}
	return engine.NewEngine(index, opts)
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, interactive bool) error {
	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		shutdown := m.StartServer(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("metrics server shutdown failed")
			}
		}()
	}

	eg, err := buildEngine(ctx, cfg, m)
	if err != nil {
		return err
	}

	session := engine.NewSession(eg, out, cfg.Query.QuitToken)
	if interactive {
		return session.RunPrompt()
	}
	return session.Run(in)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if err := run(ctx, cfg, os.Stdin, os.Stdout, interactive); err != nil {
		log.Fatal().Err(err).Msg("query session failed")
	}
}
