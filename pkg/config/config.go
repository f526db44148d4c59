// Package config loads runtime configuration from the environment, with an
// optional .env file for local use.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Command-line flags may override
// individual fields after Load.
type Config struct {
	// DBPath is the JSON inventory file both binaries operate on.
	DBPath string `env:"PARTKEEP_DB" envDefault:"inventory.json"`
	// ViewerAddr is the listen address of the read-only viewer.
	ViewerAddr string `env:"PARTKEEP_VIEWER_ADDR" envDefault:"127.0.0.1:8421"`
	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string `env:"PARTKEEP_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return &cfg, nil
}
