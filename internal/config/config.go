// Package config holds the world generator configuration and loads it from
// YAML, TOML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Config holds the generator configuration.
type Config struct {
	Seed      int64  `json:"seed" yaml:"seed" toml:"seed"`
	Algorithm string `json:"algorithm" yaml:"algorithm" toml:"algorithm"` // "xoroshiro" or "legacy"
	Generator string `json:"generator" yaml:"generator" toml:"generator"` // "noise" or "flat"
	MinY      int    `json:"min_y" yaml:"min_y" toml:"min_y"`
	Height    int    `json:"height" yaml:"height" toml:"height"`
	SeaLevel  int    `json:"sea_level" yaml:"sea_level" toml:"sea_level"`

	// Region to generate: every chunk within Radius of (CenterX, CenterZ).
	CenterX int `json:"center_x" yaml:"center_x" toml:"center_x"`
	CenterZ int `json:"center_z" yaml:"center_z" toml:"center_z"`
	Radius  int `json:"radius" yaml:"radius" toml:"radius"`
	Workers int `json:"workers" yaml:"workers" toml:"workers"` // 0 = GOMAXPROCS

	Carve    bool `json:"carve" yaml:"carve" toml:"carve"`
	Decorate bool `json:"decorate" yaml:"decorate" toml:"decorate"`

	DataDir  string `json:"data_dir" yaml:"data_dir" toml:"data_dir"` // empty = embedded bundle
	Ledger   string `json:"ledger" yaml:"ledger" toml:"ledger"`       // SQLite digest ledger path
	Dump     string `json:"dump" yaml:"dump" toml:"dump"`             // .jsonl.zst chunk summaries
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns a Config with overworld defaults.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: "xoroshiro",
		Generator: "noise",
		MinY:      -64,
		Height:    384,
		SeaLevel:  62,
		Radius:    2,
		Carve:     true,
		Decorate:  true,
		LogLevel:  "info",
	}
}

// Load reads a config file. Keys missing from the file keep their defaults.
// The format follows the extension: .yaml, .yml, .toml or .json.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	case ".json":
		err = json.Unmarshal(raw, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the generator depends on.
func (c *Config) Validate() error {
	if _, err := random.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Generator {
	case "noise", "flat":
	default:
		return fmt.Errorf("config: unknown generator %q", c.Generator)
	}
	if c.MinY%16 != 0 || c.MinY < -128 || c.MinY > 112 {
		return fmt.Errorf("config: min_y %d must be a multiple of 16 in [-128, 112]", c.MinY)
	}
	if c.Height%16 != 0 || c.Height < 16 || c.Height > 4064 {
		return fmt.Errorf("config: height %d must be a multiple of 16 in [16, 4064]", c.Height)
	}
	if c.SeaLevel < c.MinY || c.SeaLevel >= c.MinY+c.Height {
		return fmt.Errorf("config: sea_level %d outside the world", c.SeaLevel)
	}
	if c.Radius < 0 || c.Workers < 0 {
		return fmt.Errorf("config: radius and workers must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RandomAlgorithm returns the parsed random algorithm.
func (c *Config) RandomAlgorithm() random.Algorithm {
	a, _ := random.ParseAlgorithm(c.Algorithm)
	return a
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["algorithm"] {
		cfg.Algorithm = fromFile.Algorithm
	}
	if !explicitFlags["generator"] {
		cfg.Generator = fromFile.Generator
	}
	if !explicitFlags["min-y"] {
		cfg.MinY = fromFile.MinY
	}
	if !explicitFlags["height"] {
		cfg.Height = fromFile.Height
	}
	if !explicitFlags["sea-level"] {
		cfg.SeaLevel = fromFile.SeaLevel
	}
	if !explicitFlags["x"] {
		cfg.CenterX = fromFile.CenterX
	}
	if !explicitFlags["z"] {
		cfg.CenterZ = fromFile.CenterZ
	}
	if !explicitFlags["radius"] {
		cfg.Radius = fromFile.Radius
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["carve"] {
		cfg.Carve = fromFile.Carve
	}
	if !explicitFlags["decorate"] {
		cfg.Decorate = fromFile.Decorate
	}
	if !explicitFlags["data-dir"] {
		cfg.DataDir = fromFile.DataDir
	}
	if !explicitFlags["ledger"] {
		cfg.Ledger = fromFile.Ledger
	}
	if !explicitFlags["dump"] {
		cfg.Dump = fromFile.Dump
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}
