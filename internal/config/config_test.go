package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("ROTA_DB", "")
	cfg := DefaultConfig()
	if cfg.Allocation.RemovePrevious != 2 {
		t.Errorf("RemovePrevious = %d, want 2", cfg.Allocation.RemovePrevious)
	}
	if cfg.Allocation.MaxAttempts != 0 || cfg.Allocation.MaxJobsOverride != 0 {
		t.Errorf("allocation = %+v", cfg.Allocation)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.Addr != ":8080" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestDefaultConfig_DBFromEnv(t *testing.T) {
	t.Setenv("ROTA_DB", "/tmp/rota-test.db")
	if got := DefaultConfig().DBPath; got != "/tmp/rota-test.db" {
		t.Errorf("DBPath = %q", got)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rota.yaml")
	content := "log_level: debug\nallocation:\n  max_attempts: 25\n  seed: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "text" {
		t.Errorf("log settings = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Allocation.MaxAttempts != 25 || cfg.Allocation.Seed != 7 || cfg.Allocation.RemovePrevious != 2 {
		t.Errorf("allocation = %+v", cfg.Allocation)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Allocation.RemovePrevious != 2 {
		t.Errorf("allocation = %+v", cfg.Allocation)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rota.yaml")
	if err := os.WriteFile(path, []byte("allocation:\n  remove_previous: -1\n  max_attempts: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"remove_previous", "max_attempts"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestResolveDBPath(t *testing.T) {
	if got, err := ResolveDBPath(":memory:"); err != nil || got != ":memory:" {
		t.Errorf("ResolveDBPath(:memory:) = %q, %v", got, err)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ResolveDBPath("")
	if err != nil {
		t.Fatalf("ResolveDBPath: %v", err)
	}
	if got != filepath.Join(home, ".rota", "rota.db") {
		t.Errorf("path = %q", got)
	}
}

func TestAllocatorConfig(t *testing.T) {
	ac := AllocationConfig{RemovePrevious: 3, MaxJobsOverride: 2, MaxAttempts: 10, Seed: 42, Shuffle: true}
	got := ac.AllocatorConfig()
	if got.RemovePrevious != 3 || got.MaxJobsOverride != 2 || got.MaxAttempts != 10 || got.Seed != 42 || !got.Shuffle {
		t.Errorf("AllocatorConfig() = %+v", got)
	}
	if got.Observer != nil {
		t.Error("Observer should be left for the caller")
	}
}

func TestLoad_RoundEvery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rota.yaml")
	if err := os.WriteFile(path, []byte("round_every: 168h\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RoundEvery != 7*24*time.Hour {
		t.Errorf("RoundEvery = %s, want 168h", cfg.RoundEvery)
	}

	cfg.RoundEvery = -time.Second
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "round_every") {
		t.Errorf("Validate = %v, want round_every error", err)
	}
}
