// Package config loads CLI settings: a YAML file, an optional .env file, and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-scorekeeper/internal/model"
)

const (
	// EnvDB overrides the tournament database path.
	EnvDB = "SCOREKEEPER_DB"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "SCOREKEEPER_LOG_LEVEL"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	DBPath   string `yaml:"db"`
	LogLevel string `yaml:"log_level"`
	// Scoring seeds new tournaments; existing tournaments keep their own.
	Scoring model.ScoringConfig `yaml:"scoring"`
}

// Dir returns the per-user settings directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".scorekeeper")
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		DBPath:   filepath.Join(Dir(), "tournament.db"),
		LogLevel: "info",
		Scoring:  model.DefaultScoringConfig(),
	}
}

// Load reads filename on top of the defaults. A missing file is not an
// error. Values from a .env file in the working directory and from the
// process environment win over the file.
func Load(filename string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("config file not found, using defaults", "path", filename)
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		// A position table in the file replaces the default one instead of merging.
		cfg.Scoring.PositionPoints = nil
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if len(cfg.Scoring.PositionPoints) == 0 {
		cfg.Scoring.PositionPoints = model.DefaultScoringConfig().PositionPoints
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: scoring: %w", filename, err)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadScoring reads a standalone scoring scheme file (kill_points plus a
// position_points table).
func LoadScoring(filename string) (model.ScoringConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return model.ScoringConfig{}, fmt.Errorf("read scoring file: %w", err)
	}
	var cfg model.ScoringConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal scoring file: %w", err)
	}
	if cfg.PositionPoints == nil {
		cfg.PositionPoints = map[int]float64{}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scoring file %s: %w", filename, err)
	}
	return cfg, nil
}
