package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"world.yaml", "seed: 42\nalgorithm: legacy\nradius: 5\ncarve: false\ndata_dir: /data\n"},
		{"world.yml", "seed: 42\nalgorithm: legacy\nradius: 5\ncarve: false\ndata_dir: /data\n"},
		{"world.toml", "seed = 42\nalgorithm = \"legacy\"\nradius = 5\ncarve = false\ndata_dir = \"/data\"\n"},
		{"world.json", `{"seed": 42, "algorithm": "legacy", "radius": 5, "carve": false, "data_dir": "/data"}`},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Seed != 42 || cfg.Algorithm != "legacy" || cfg.Radius != 5 || cfg.Carve || cfg.DataDir != "/data" {
				t.Errorf("loaded %+v", cfg)
			}
			// Keys absent from the file keep their defaults.
			if cfg.Height != 384 || cfg.MinY != -64 || !cfg.Decorate || cfg.Generator != "noise" {
				t.Errorf("defaults lost: %+v", cfg)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if cfg.RandomAlgorithm() != random.AlgorithmLegacy {
				t.Errorf("algorithm = %v", cfg.RandomAlgorithm())
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeFile(t, "world.ini", "seed=1")); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("ini err = %v", err)
	}
	if _, err := Load(writeFile(t, "world.yaml", "seed: [1")); err == nil {
		t.Error("malformed yaml accepted")
	}
	if _, err := Load(writeFile(t, "world.toml", "seed = \"x\"")); err == nil {
		t.Error("mistyped toml accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"flat", func(c *Config) { c.Generator = "flat" }, true},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "mt19937" }, false},
		{"unknown generator", func(c *Config) { c.Generator = "amplified" }, false},
		{"unaligned min_y", func(c *Config) { c.MinY = -60 }, false},
		{"unaligned height", func(c *Config) { c.Height = 100 }, false},
		{"sea above world", func(c *Config) { c.SeaLevel = 400 }, false},
		{"negative radius", func(c *Config) { c.Radius = -1 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	if l, err := cfg.Level(); err != nil || l != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", l, err)
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Radius = 9

	fromFile := DefaultConfig()
	fromFile.Seed = 100
	fromFile.Radius = 1
	fromFile.Ledger = "digests.db"
	fromFile.Carve = false

	Merge(cfg, fromFile, map[string]bool{"seed": true})
	if cfg.Seed != 7 {
		t.Errorf("explicit seed overwritten: %d", cfg.Seed)
	}
	if cfg.Radius != 1 || cfg.Ledger != "digests.db" || cfg.Carve {
		t.Errorf("file values not applied: %+v", cfg)
	}
}
