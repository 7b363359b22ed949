package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the processing defaults, overridable via environment
// variables (a .env file is honored when present).
type Config struct {
	DatabasePath string `env:"CAREERDOC_DB" envDefault:"careerdoc.db"`
	ScanDir      string `env:"CAREERDOC_DIR" envDefault:"."`
	LogLevel     string `env:"CAREERDOC_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"CAREERDOC_LOG_FILE"`

	TargetChunkSize int `env:"CAREERDOC_CHUNK_SIZE" envDefault:"800"`
	MaxChunkSize    int `env:"CAREERDOC_MAX_CHUNK_SIZE" envDefault:"1500"`
	MinChunkSize    int `env:"CAREERDOC_MIN_CHUNK_SIZE" envDefault:"100"`

	BatchSize int `env:"CAREERDOC_BATCH_SIZE" envDefault:"50"`
	Workers   int `env:"CAREERDOC_WORKERS" envDefault:"4"`
	SkipHash  bool
	DryRun    bool
}

// Load reads an optional .env file, then the environment, into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	return nil
}
