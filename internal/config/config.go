// Package config loads and validates the engine configuration. Published
// thresholds (tier cutoffs, forecast floors, confidence bands, region
// conventions) are tuning knobs that live here, not constants in the
// engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/deckwatch/deckwatch/internal/meta"
)

// Config is the application configuration.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Database DatabaseConfig `toml:"database"`
	Resolver ResolverConfig `toml:"resolver"`
	Meta     MetaConfig     `toml:"meta"`
}

// DataConfig locates the index data files the resolver is built from.
type DataConfig struct {
	Dir           string `toml:"dir"`            // Directory holding the index files
	SignatureFile string `toml:"signature_file"` // Signature-card index (yaml)
	SpriteFile    string `toml:"sprite_file"`    // Sprite combos and names (yaml)
	AliasFile     string `toml:"alias_file"`     // Archetype alias table (yaml)
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// ResolverConfig tunes batch resolution.
type ResolverConfig struct {
	Workers int `toml:"workers"` // 0 = NumCPU
}

// MetaConfig holds the aggregation and comparison thresholds.
type MetaConfig struct {
	LeadingRegion        string         `toml:"leading_region"`
	DefaultBestOf        int            `toml:"default_best_of"`
	BestOfByRegion       map[string]int `toml:"best_of_by_region"`
	MinForecastShare     float64        `toml:"min_forecast_share"`
	LeadingOnlyThreshold float64        `toml:"leading_only_threshold"`
	TrendEpsilon         float64        `toml:"trend_epsilon"`

	Tiers      TierConfig       `toml:"tiers"`
	Confidence ConfidenceConfig `toml:"confidence"`
}

// TierConfig holds minimum shares per tier.
type TierConfig struct {
	S float64 `toml:"s"`
	A float64 `toml:"a"`
	B float64 `toml:"b"`
	C float64 `toml:"c"`
}

// ConfidenceConfig holds the snapshot confidence band cutoffs.
type ConfidenceConfig struct {
	HighMinSample    int `toml:"high_min_sample"`
	HighMaxAgeDays   int `toml:"high_max_age_days"`
	MediumMinSample  int `toml:"medium_min_sample"`
	MediumMaxAgeDays int `toml:"medium_max_age_days"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	bands := meta.DefaultBandConfig()
	tiers := meta.DefaultTierThresholds()
	engine := meta.DefaultEngineConfig()

	return &Config{
		Data: DataConfig{
			Dir:           "data",
			SignatureFile: "signatures.yaml",
			SpriteFile:    "sprites.yaml",
			AliasFile:     "aliases.yaml",
		},
		Database: DatabaseConfig{
			Path:        defaultDatabasePath(),
			AutoMigrate: true,
		},
		Resolver: ResolverConfig{Workers: 0},
		Meta: MetaConfig{
			LeadingRegion:        engine.LeadingRegion,
			DefaultBestOf:        engine.DefaultBestOf,
			BestOfByRegion:       engine.BestOfByRegion,
			MinForecastShare:     engine.MinForecastShare,
			LeadingOnlyThreshold: engine.LeadingOnlyThreshold,
			TrendEpsilon:         0.005,
			Tiers:                TierConfig{S: tiers.S, A: tiers.A, B: tiers.B, C: tiers.C},
			Confidence: ConfidenceConfig{
				HighMinSample:    bands.HighMinSample,
				HighMaxAgeDays:   bands.HighMaxAgeDays,
				MediumMinSample:  bands.MediumMinSample,
				MediumMaxAgeDays: bands.MediumMaxAgeDays,
			},
		},
	}
}

func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "deckwatch.db"
	}
	return filepath.Join(homeDir, ".deckwatch", "deckwatch.db")
}

// Load reads the configuration from path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Meta.LeadingRegion == "" {
		return fmt.Errorf("leading region cannot be empty")
	}
	if c.Meta.DefaultBestOf <= 0 {
		return fmt.Errorf("default best-of must be positive: %d", c.Meta.DefaultBestOf)
	}
	if c.Meta.MinForecastShare < 0 || c.Meta.MinForecastShare > 1 {
		return fmt.Errorf("minimum forecast share %v out of [0,1]", c.Meta.MinForecastShare)
	}
	if c.Meta.LeadingOnlyThreshold < 0 || c.Meta.LeadingOnlyThreshold > 1 {
		return fmt.Errorf("leading-only threshold %v out of [0,1]", c.Meta.LeadingOnlyThreshold)
	}
	tiers := c.Meta.Tiers
	if !(tiers.S >= tiers.A && tiers.A >= tiers.B && tiers.B >= tiers.C && tiers.C >= 0) {
		return fmt.Errorf("tier thresholds must be non-increasing: S=%v A=%v B=%v C=%v", tiers.S, tiers.A, tiers.B, tiers.C)
	}
	if c.Meta.Confidence.HighMinSample < c.Meta.Confidence.MediumMinSample {
		return fmt.Errorf("high band sample floor %d below medium %d",
			c.Meta.Confidence.HighMinSample, c.Meta.Confidence.MediumMinSample)
	}
	if c.Resolver.Workers < 0 {
		return fmt.Errorf("resolver workers cannot be negative: %d", c.Resolver.Workers)
	}
	return nil
}

// TierThresholds converts the tier section for the meta engine.
func (c *Config) TierThresholds() meta.TierThresholds {
	return meta.TierThresholds{S: c.Meta.Tiers.S, A: c.Meta.Tiers.A, B: c.Meta.Tiers.B, C: c.Meta.Tiers.C}
}

// BandConfig converts the confidence section for the meta engine.
func (c *Config) BandConfig() meta.BandConfig {
	return meta.BandConfig{
		HighMinSample:    c.Meta.Confidence.HighMinSample,
		HighMaxAgeDays:   c.Meta.Confidence.HighMaxAgeDays,
		MediumMinSample:  c.Meta.Confidence.MediumMinSample,
		MediumMaxAgeDays: c.Meta.Confidence.MediumMaxAgeDays,
	}
}

// EngineConfig converts the meta section for the comparison engine.
func (c *Config) EngineConfig() meta.EngineConfig {
	return meta.EngineConfig{
		LeadingRegion:        c.Meta.LeadingRegion,
		BestOfByRegion:       c.Meta.BestOfByRegion,
		DefaultBestOf:        c.Meta.DefaultBestOf,
		MinForecastShare:     c.Meta.MinForecastShare,
		LeadingOnlyThreshold: c.Meta.LeadingOnlyThreshold,
		Bands:                c.BandConfig(),
	}
}

// SignaturePath returns the absolute path of the signature index file.
func (c *Config) SignaturePath() string { return filepath.Join(c.Data.Dir, c.Data.SignatureFile) }

// SpritePath returns the absolute path of the sprite index file.
func (c *Config) SpritePath() string { return filepath.Join(c.Data.Dir, c.Data.SpriteFile) }

// AliasPath returns the absolute path of the alias table file.
func (c *Config) AliasPath() string { return filepath.Join(c.Data.Dir, c.Data.AliasFile) }
