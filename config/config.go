// Package config reads IsleCore settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process settings. Command-line flags override it.
type Config struct {
	World        string        `env:"ISLECORE_WORLD" envDefault:"worlds/east_blue"`
	Plain        bool          `env:"ISLECORE_PLAIN"`
	Trace        bool          `env:"ISLECORE_TRACE"`
	Seed         int64         `env:"ISLECORE_SEED"` // 0 picks a seed from the clock
	ReflexBudget time.Duration `env:"ISLECORE_REFLEX_BUDGET" envDefault:"3s"`
	LogLevel     string        `env:"ISLECORE_LOG_LEVEL" envDefault:"info"`
	LogFile      string        `env:"ISLECORE_LOG_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReflexBudget <= 0 {
		return Config{}, fmt.Errorf("ISLECORE_REFLEX_BUDGET must be positive, got %s", cfg.ReflexBudget)
	}
	return cfg, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("ISLECORE_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// Logger builds the diagnostic logger. Without a LogFile diagnostics are
// discarded so they never mix with game output. The returned closer must be
// called on exit.
func (c Config) Logger() (*slog.Logger, io.Closer, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, nil, err
	}
	if c.LogFile == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
