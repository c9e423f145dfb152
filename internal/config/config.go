// Package config loads the configuration of the agrad command.
//
// Values are merged with priority env > file > defaults and validated
// with go-playground/validator tags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abikoushi/stan/internal/parallel"
)

// Config is the full configuration.
type Config struct {
	Check    CheckConfig     `yaml:"check"`
	Tape     TapeConfig      `yaml:"tape"`
	Parallel parallel.Config `yaml:"parallel"`
	Log      LogConfig       `yaml:"log"`
}

// CheckConfig controls the finite-difference gradient checks.
type CheckConfig struct {
	Cases     []string `yaml:"cases"`                                // Case names to run; empty runs all.
	Samples   int      `yaml:"samples" validate:"gte=1,lte=1000000"` // Random points per case.
	Seed      uint64   `yaml:"seed"`                                 // Seed of the point generator.
	Step      float64  `yaml:"step" validate:"gt=0,lt=1"`            // Central-difference step.
	Tolerance float64  `yaml:"tolerance" validate:"gt=0,lte=1"`      // Allowed relative error.
}

// TapeConfig sizes the tape of every evaluator.
type TapeConfig struct {
	Capacity int `yaml:"capacity" validate:"gte=0"`  // Initial node capacity.
	MaxNodes int `yaml:"max_nodes" validate:"gte=0"` // Node limit; 0 means unbounded.
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Default returns the default configuration.
func Default() Config {
	return Config{
		Check: CheckConfig{
			Samples:   20,
			Seed:      1,
			Step:      1e-6,
			Tolerance: 1e-5,
		},
		Tape: TapeConfig{
			Capacity: 1024,
		},
		Parallel: parallel.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Environment variables are not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decode rejects keys that do not map to a field so that typos surface.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks every field against its tag.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Environment variables read by Load.
const (
	EnvLogLevel   = "AGRAD_LOG_LEVEL"
	EnvNumWorkers = "AGRAD_NUM_WORKERS"
	EnvSeed       = "AGRAD_SEED"
	EnvMaxNodes   = "AGRAD_MAX_NODES"
)

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvNumWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNumWorkers, err)
		}
		cfg.Parallel.NumWorkers = n
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Check.Seed = n
	}
	if v := os.Getenv(EnvMaxNodes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxNodes, err)
		}
		cfg.Tape.MaxNodes = n
	}
	return nil
}

// Logger builds a logger writing to w.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c LogConfig) level() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
