package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/me/rota/internal/allocator"
	"gopkg.in/yaml.v3"
)

// Config holds configuration for the rota CLI and server.
type Config struct {
	LogLevel   string           `yaml:"log_level"`  // debug, info, warn, error
	LogFormat  string           `yaml:"log_format"` // text, json
	DBPath     string           `yaml:"db"`         // SQLite path (default ~/.rota/rota.db, ":memory:" for testing)
	Addr       string           `yaml:"addr"`       // API listen address
	RoundEvery time.Duration    `yaml:"round_every"` // serve: allocate a round on this cadence (0 disables)
	Allocation AllocationConfig `yaml:"allocation"`
}

// AllocationConfig holds the allocation policy.
type AllocationConfig struct {
	RemovePrevious  int    `yaml:"remove_previous"`   // repeat-exclusion window
	MaxJobsOverride int    `yaml:"max_jobs_override"` // 0 derives the quota from the roster
	MaxAttempts     int    `yaml:"max_attempts"`      // 0 retries until complete
	Seed            uint64 `yaml:"seed"`              // 0 seeds from the clock
	Shuffle         bool   `yaml:"shuffle"`           // shuffle single rounds too
}

// AllocatorConfig converts the policy into the allocator's settings.
func (a AllocationConfig) AllocatorConfig() allocator.Config {
	return allocator.Config{
		RemovePrevious:  a.RemovePrevious,
		MaxJobsOverride: a.MaxJobsOverride,
		Shuffle:         a.Shuffle,
		MaxAttempts:     a.MaxAttempts,
		Seed:            a.Seed,
	}
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    os.Getenv("ROTA_DB"),
		Addr:      ":8080",
		Allocation: AllocationConfig{
			RemovePrevious: 2,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects negative allocation settings.
func (c Config) Validate() error {
	var errs []error
	if c.RoundEvery < 0 {
		errs = append(errs, errors.New("round_every must be >= 0"))
	}
	if c.Allocation.RemovePrevious < 0 {
		errs = append(errs, errors.New("allocation.remove_previous must be >= 0"))
	}
	if c.Allocation.MaxJobsOverride < 0 {
		errs = append(errs, errors.New("allocation.max_jobs_override must be >= 0"))
	}
	if c.Allocation.MaxAttempts < 0 {
		errs = append(errs, errors.New("allocation.max_attempts must be >= 0"))
	}
	return errors.Join(errs...)
}

// ResolveDBPath returns path, or ~/.rota/rota.db (creating the directory)
// when path is empty.
func ResolveDBPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".rota")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return filepath.Join(dir, "rota.db"), nil
}
