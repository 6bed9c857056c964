// Package config holds the loot tool configuration.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/loottable/internal/database"
	"github.com/lawnchairsociety/loottable/internal/loot"
)

// Config holds loot tool settings.
type Config struct {
	Table    TableConfig     `yaml:"table" toml:"table"`
	Source   SourceConfig    `yaml:"source" toml:"source"`
	Database database.Config `yaml:"database" toml:"database"`

	// Draws is the number of drops the draw and sim commands take.
	Draws int `yaml:"draws" toml:"draws" env:"LOOT_DRAWS"`

	// Seed seeds the table's generator. 0 picks a random seed.
	Seed int64 `yaml:"seed" toml:"seed" env:"LOOT_SEED"`
}

// TableConfig holds loot table settings.
type TableConfig struct {
	// Confidence is the certainty that an item has dropped after its tries.
	Confidence float64 `yaml:"confidence" toml:"confidence" env:"LOOT_CONFIDENCE"`

	// Policy is "fail_fast" or "collect".
	Policy string `yaml:"policy" toml:"policy" env:"LOOT_POLICY"`
}

// SourceConfig says where loot records come from.
type SourceConfig struct {
	// Path is the CSV file of name,tries records.
	Path string `yaml:"path" toml:"path" env:"LOOT_SOURCE"`

	// Encoding is the charset of the CSV file (default utf-8).
	Encoding string `yaml:"encoding" toml:"encoding" env:"LOOT_ENCODING"`

	// Table names a loot table stored in the database. When set it takes
	// precedence over Path.
	Table string `yaml:"table" toml:"table" env:"LOOT_TABLE"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			Confidence: loot.DefaultConfidence,
			Policy:     loot.FailFast.String(),
		},
		Source: SourceConfig{
			Path:     "loot.csv",
			Encoding: "utf-8",
		},
		Database: database.DefaultConfig("data/loot.db"),
		Draws:    20,
	}
}

// LoadConfig loads configuration from a YAML file, or a TOML file when the
// path ends in .toml, then applies LOOT_* environment overrides.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Use defaults if file doesn't exist
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := decode(path, data, config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, config)
	}
	return yaml.Unmarshal(data, config)
}

// ApplyEnv overrides fields from LOOT_* environment variables.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings the loot table cannot check itself.
func (c *Config) Validate() error {
	conf := c.Table.Confidence
	if math.IsNaN(conf) || conf <= 0 || conf >= 1 {
		return fmt.Errorf("table.confidence must be between 0 and 1 exclusive, got %g", conf)
	}
	if _, err := loot.ParsePolicy(c.Table.Policy); err != nil {
		return fmt.Errorf("table.policy: %w", err)
	}
	if c.Draws < 1 {
		return fmt.Errorf("draws must be positive, got %d", c.Draws)
	}
	if _, err := loot.LookupEncoding(c.Source.Encoding); err != nil {
		return fmt.Errorf("source.encoding: %w", err)
	}
	return c.Database.Validate()
}

// TableOptions returns the loot table options for these settings.
// Call Validate first.
func (c *Config) TableOptions() []loot.Option {
	policy, _ := loot.ParsePolicy(c.Table.Policy)
	opts := []loot.Option{
		loot.WithConfidence(c.Table.Confidence),
		loot.WithPolicy(policy),
	}
	if c.Seed != 0 {
		opts = append(opts, loot.WithSeed(c.Seed))
	}
	return opts
}
