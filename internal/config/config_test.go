package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles <= 0 {
		t.Error("particles should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }},
		{"negative density", func(c *Config) { c.Density = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"non power of two block", func(c *Config) { c.BlockSize = 48 }},
		{"zero tau_t", func(c *Config) { c.TauT = 0 }},
		{"zero sample", func(c *Config) { c.Sample = 0 }},
		{"negative sample", func(c *Config) { c.Sample = -5 }},
		{"cutoff too large", func(c *Config) { c.LJ.Cutoff = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "npt.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 500
	cfg.Temperature = 2.5
	cfg.BlockSize = 128
	cfg.LJ.Cutoff = 2.0

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("particles: 100\ntemperature: 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Particles != 100 || cfg.Temperature != 2.0 {
		t.Errorf("explicit values not applied: %+v", cfg)
	}
	if cfg.Dt != DefaultDt || cfg.BlockSize != DefaultBlockSize {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("equilibrate")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	cfg.Particles = 1
	if Presets["equilibrate"].Particles == 1 {
		t.Error("GetPreset must return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for name := range Presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
