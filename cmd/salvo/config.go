package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/generator"
	"github.com/hupe1980/salvo/internal/geometry"
	"github.com/hupe1980/salvo/resource"
)

// Config is the CLI configuration. It is read from an optional YAML file
// and then overlaid with command-line flags.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Build   BuildConfig   `yaml:"build"`
	Log     LogConfig     `yaml:"log"`
	Limits  LimitsConfig  `yaml:"limits"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects where datasets live.
type StoreConfig struct {
	// Kind is "local", "s3" or "minio".
	Kind     string `yaml:"kind"`
	Root     string `yaml:"root"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	// AccessKey and SecretKey are used by the minio store. The s3 store
	// uses the default AWS credential chain.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Insecure  bool   `yaml:"insecure"`
	// NoOverwrite rejects writes to existing objects on s3.
	NoOverwrite bool `yaml:"no_overwrite"`
}

// BuildConfig holds the dataset build parameters.
type BuildConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fleet         string `yaml:"fleet"`
	Adjacency     string `yaml:"adjacency"`
	Compression   string `yaml:"compression"`
	Level         int    `yaml:"level"`
	Format        string `yaml:"format"`
	Workers       int    `yaml:"workers"`
	CanonicalOnly bool   `yaml:"canonical_only"`
	// Codec names the manifest codec; empty selects the default.
	Codec string `yaml:"codec"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LimitsConfig bounds resource usage.
type LimitsConfig struct {
	MaxConcurrentQueries int64 `yaml:"max_concurrent_queries"`
	MemoryLimitBytes     int64 `yaml:"memory_limit_bytes"`
	IOBytesPerSec        int64 `yaml:"io_bytes_per_sec"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Kind: "local", Root: "."},
		Build: BuildConfig{
			Width:       salvo.StandardGrid.Width,
			Height:      salvo.StandardGrid.Height,
			Fleet:       "4,4,4,3,3,3,3,3",
			Adjacency:   "diagonal",
			Compression: "zstd",
			Format:      "delta",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Logger builds the engine logger.
func (c LogConfig) Logger() (*salvo.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case "", "text":
		return salvo.NewTextLogger(level), nil
	case "json":
		return salvo.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

// Controller builds the resource controller, or nil when no limit is set.
func (c LimitsConfig) Controller() *resource.Controller {
	if c == (LimitsConfig{}) {
		return nil
	}
	return resource.NewController(resource.Config{
		MaxConcurrentQueries: c.MaxConcurrentQueries,
		MemoryLimitBytes:     c.MemoryLimitBytes,
		IOLimitBytesPerSec:   c.IOBytesPerSec,
	})
}

// Options converts the build section into engine build options.
func (c BuildConfig) Options() (salvo.BuildOptions, error) {
	fleet, err := generator.ParseFleet(c.Fleet)
	if err != nil {
		return salvo.BuildOptions{}, err
	}
	adj, err := geometry.ParseAdjacency(c.Adjacency)
	if err != nil {
		return salvo.BuildOptions{}, err
	}
	format, err := dataset.ParseFormat(c.Format)
	if err != nil {
		return salvo.BuildOptions{}, err
	}
	return salvo.BuildOptions{
		Grid:          salvo.Grid{Width: c.Width, Height: c.Height},
		Fleet:         fleet,
		Adjacency:     adj,
		Compression:   c.Compression,
		Level:         c.Level,
		Format:        format,
		Workers:       c.Workers,
		CanonicalOnly: c.CanonicalOnly,
	}, nil
}
