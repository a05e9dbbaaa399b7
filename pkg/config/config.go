// Package config loads the settings of the index commands from an optional
// YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Profile ProfileConfig `yaml:"profile"`
}

// IndexConfig selects the corpus and the size of the build worker pool.
type IndexConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	Workers   int    `yaml:"workers"`
}

type QueryConfig struct {
	CacheSize int    `yaml:"cacheSize"`
	QuitToken string `yaml:"quitToken"`
	// Normalize runs query terms through the document normalizer before
	// the lookup. Off by default: terms are matched exactly as typed.
	Normalize bool `yaml:"normalize"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type ProfileConfig struct {
	Trace  string `yaml:"trace"`
	Memory string `yaml:"memory"`
}

// Load reads the YAML file at path, if any, on top of the defaults, then
// applies PARINDEX_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Dir:       "neg/",
			Extension: ".txt",
			Workers:   4,
		},
		Query: QueryConfig{
			CacheSize: 256,
			QuitToken: "q",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

var (
	ErrEmptyDir       = errors.New("index.dir is empty")
	ErrInvalidWorkers = errors.New("index.workers must be at least 1")
	ErrNegativeCache  = errors.New("query.cacheSize must not be negative")
	ErrEmptyQuitToken = errors.New("query.quitToken is empty")
)

func (c *Config) Validate() error {
	var errs []error
	if c.Index.Dir == "" {
		errs = append(errs, ErrEmptyDir)
	}
	if c.Index.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Index.Workers))
	}
	if c.Query.CacheSize < 0 {
		errs = append(errs, ErrNegativeCache)
	}
	if c.Query.QuitToken == "" {
		errs = append(errs, ErrEmptyQuitToken)
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PARINDEX_INDEX_DIR"); v != "" {
		cfg.Index.Dir = v
	}
	if v := os.Getenv("PARINDEX_INDEX_EXT"); v != "" {
		cfg.Index.Extension = v
	}
	if v := os.Getenv("PARINDEX_INDEX_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PARINDEX_INDEX_WORKERS: %w", err)
		}
		cfg.Index.Workers = workers
	}
	if v := os.Getenv("PARINDEX_QUERY_CACHE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PARINDEX_QUERY_CACHE_SIZE: %w", err)
		}
		cfg.Query.CacheSize = size
	}
	if v := os.Getenv("PARINDEX_QUERY_NORMALIZE"); v != "" {
		normalize, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PARINDEX_QUERY_NORMALIZE: %w", err)
		}
		cfg.Query.Normalize = normalize
	}
	if v := os.Getenv("PARINDEX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PARINDEX_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}
