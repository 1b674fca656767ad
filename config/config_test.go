package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.DefaultK != 6 {
		t.Errorf("expected DefaultK=6, got %d", cfg.Engine.DefaultK)
	}
	if cfg.Engine.TauDays != 14 {
		t.Errorf("expected TauDays=14, got %f", cfg.Engine.TauDays)
	}
	if cfg.Weights.Purchase != 1.5 {
		t.Errorf("expected Purchase=1.5, got %f", cfg.Weights.Purchase)
	}
	if cfg.Weights.Default != 0.2 {
		t.Errorf("expected Default=0.2, got %f", cfg.Weights.Default)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reco.yaml")

	content := `
engine:
  default_k: 10
  tau_days: 7
weights:
  view: 0.5
events:
  backend: redis
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.DefaultK != 10 {
		t.Errorf("expected DefaultK=10, got %d", cfg.Engine.DefaultK)
	}
	if cfg.Engine.TauDays != 7 {
		t.Errorf("expected TauDays=7, got %f", cfg.Engine.TauDays)
	}
	if cfg.Weights.View != 0.5 {
		t.Errorf("expected View=0.5, got %f", cfg.Weights.View)
	}
	if cfg.Weights.Purchase != 1.5 {
		t.Errorf("expected untouched Purchase=1.5, got %f", cfg.Weights.Purchase)
	}
	if cfg.Events.Backend != "redis" {
		t.Errorf("expected backend=redis, got %s", cfg.Events.Backend)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reco.yaml")
	if err := os.WriteFile(configPath, []byte("engine: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}

	content := `
server:
  addr: ":9000"
`
	if err := os.WriteFile(filepath.Join(DataDir(tmpDir), "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected Addr=:9000, got %s", cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reco.yaml")

	cfg := DefaultConfig()
	cfg.Engine.MaxK = 42
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Engine.MaxK != 42 {
		t.Errorf("expected MaxK=42, got %d", loaded.Engine.MaxK)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tau", func(c *Config) { c.Engine.TauDays = 0 }},
		{"zero default k", func(c *Config) { c.Engine.DefaultK = 0 }},
		{"max below default", func(c *Config) { c.Engine.MaxK = 1 }},
		{"negative weight", func(c *Config) { c.Weights.View = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStoreDBPath(t *testing.T) {
	got := StoreDBPath("/srv/app")
	if got != filepath.Join("/srv/app", ".reco", "reco.db") {
		t.Errorf("unexpected path %s", got)
	}
}
