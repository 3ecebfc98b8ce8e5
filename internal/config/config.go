// Package config reads and writes the statemint.yaml project file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level statemint.yaml configuration.
type Config struct {
	Owner      string           `yaml:"owner"`
	Region     string           `yaml:"region"`
	Currency   CurrencyConfig   `yaml:"currency"`
	Dates      DatesConfig      `yaml:"dates"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Import     ImportConfig     `yaml:"import"`
	Rules      RulesConfig      `yaml:"rules"`
	Store      StoreConfig      `yaml:"store"`
}

// CurrencyConfig sets the reporting currency and the pinned conversion
// rates used for foreign-currency inputs.
type CurrencyConfig struct {
	Base string `yaml:"base"` // ISO code, e.g. "INR"
	// Rates is keyed "FROM/TO", e.g. "USD/INR": 83.2. Reverse pairs are
	// derived by inversion.
	Rates map[string]float64 `yaml:"rates,omitempty"`
}

// DatesConfig controls date interpretation for inputs that do not pin it.
type DatesConfig struct {
	// AmbiguousOrder is the assumed ordering for generic statements whose
	// layout does not declare one: "day-first", "month-first" or "year-first".
	AmbiguousOrder string `yaml:"ambiguous_order"`
	// ReferenceYear anchors year-less manual entries.
	ReferenceYear int `yaml:"reference_year"`
}

// ThresholdsConfig tunes the classification and transfer heuristics.
type ThresholdsConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
	LargeTransfer float64 `yaml:"large_transfer"` // 0 disables the heuristic
}

// ImportConfig controls the persistence step.
type ImportConfig struct {
	BatchSize  int `yaml:"batch_size"`
	DescPrefix int `yaml:"desc_prefix"` // fingerprint description prefix length
}

// RulesConfig points at the classification rule file.
type RulesConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig selects the persistence backend. DSN is usually left empty and
// supplied via STATEMINT_DSN instead, so credentials stay out of the file.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "memory" or "postgres"
	DSN    string `yaml:"dsn,omitempty"`
}

// Load reads a statemint.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(owner, region string) *Config {
	return &Config{
		Owner:  owner,
		Region: region,
		Currency: CurrencyConfig{
			Base: "INR",
		},
		Dates: DatesConfig{
			AmbiguousOrder: "day-first",
		},
		Thresholds: ThresholdsConfig{
			MinConfidence: 0.30,
			LargeTransfer: 50000,
		},
		Import: ImportConfig{
			BatchSize:  100,
			DescPrefix: 24,
		},
		Rules: RulesConfig{
			Path: "rules/classification-rules.yaml",
		},
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}
