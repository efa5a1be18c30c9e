// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/doc-reviewer/internal/consistency"
	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/splitter"
	"github.com/jonathan/doc-reviewer/internal/types"
)

// Config is the full review configuration, loaded from a YAML file.
// All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	Gateway          GatewayConfig  `yaml:"gateway"`
	TextProcessing   TextConfig     `yaml:"text_processing"`
	Review           ReviewConfig   `yaml:"review"`
	Database         DatabaseConfig `yaml:"database"`
	ReviewPointsFile string         `yaml:"review_points_file"`
}

// GatewayConfig selects the analysis provider and its models
type GatewayConfig struct {
	Provider string            `yaml:"provider" validate:"omitempty,oneof=gemini openai anthropic"`
	APIKey   string            `yaml:"api_key"`
	Models   map[string]string `yaml:"models" validate:"dive,keys,oneof=lite standard advanced,endkeys,required"`
}

// TextConfig configures document segmentation. MinChunkSize and
// Overlap are pointers because zero is a meaningful value for both; a
// nil field keeps the engine default.
type TextConfig struct {
	Strategy         string   `yaml:"split_strategy" validate:"omitempty,oneof=chapter paragraph fixed_size semantic"`
	MaxChunkSize     int      `yaml:"max_chunk_size" validate:"gte=0"`
	MinChunkSize     *int     `yaml:"min_chunk_size" validate:"omitempty,gte=0"`
	Overlap          *int     `yaml:"overlap_size" validate:"omitempty,gte=0"`
	BoundaryPatterns []string `yaml:"boundary_patterns"`
}

// ReviewConfig configures orchestration and cross-chunk checking
type ReviewConfig struct {
	Scenario    string            `yaml:"scenario" validate:"omitempty,oneof=general contract media academic"`
	Concurrency int               `yaml:"concurrency" validate:"gte=0,lte=64"`
	Tier        string            `yaml:"model_tier" validate:"omitempty,oneof=lite standard advanced"`
	Consistency ConsistencyConfig `yaml:"consistency_check"`
}

// ConsistencyConfig toggles the cross-chunk checks
type ConsistencyConfig struct {
	Enable     *bool    `yaml:"enable"`
	CheckTypes []string `yaml:"check_types" validate:"dive,oneof=terminology facts logic requirements"`
}

// DatabaseConfig holds artifact persistence settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{Provider: "gemini"},
		TextProcessing: TextConfig{
			Strategy:     "chapter",
			MaxChunkSize: 8000,
			BoundaryPatterns: []string{
				`^第[一二三四五六七八九十百千0-9]+[章节部]`,
				`^Chapter\s+\d+`,
				`^#{1,6}\s+\S.*$`,
			},
		},
		Review: ReviewConfig{
			Scenario:    "general",
			Concurrency: 4,
			Consistency: ConsistencyConfig{
				CheckTypes: []string{"terminology", "facts", "logic"},
			},
		},
	}
}

// envPattern matches ${VAR} and ${VAR:default} references
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// substituteEnv expands environment variable references in the raw
// configuration text before decoding
func substituteEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		groups := envPattern.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(value)
		}
		return groups[2]
	})
}

// Load reads a YAML configuration file, expands environment variable
// references, applies defaults for unset fields, and validates the
// result
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, defaults, and validates configuration YAML
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(substituteEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values, then verifies the text processing
// section against the segmentation engine's own rules so that a
// validated configuration can never fail at segmentation time
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := c.SplitterConfig(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// SplitterConfig builds the segmentation settings from the text
// processing section
func (c *Config) SplitterConfig() (splitter.Config, error) {
	cfg := splitter.DefaultConfig()
	if c.TextProcessing.Strategy != "" {
		strategy, err := splitter.ParseStrategy(c.TextProcessing.Strategy)
		if err != nil {
			return cfg, err
		}
		cfg.Strategy = strategy
	}
	if c.TextProcessing.MaxChunkSize > 0 {
		cfg.MaxChunkSize = c.TextProcessing.MaxChunkSize
	}
	if c.TextProcessing.MinChunkSize != nil {
		cfg.MinChunkSize = *c.TextProcessing.MinChunkSize
	}
	if c.TextProcessing.Overlap != nil {
		cfg.Overlap = *c.TextProcessing.Overlap
	}
	if len(c.TextProcessing.BoundaryPatterns) > 0 {
		cfg.BoundaryPatterns = c.TextProcessing.BoundaryPatterns
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ConsistencyConfig builds the cross-chunk checker settings. The
// requirements check is added for contract reviews even when the
// configuration leaves it out.
func (c *Config) ConsistencyConfig() consistency.Config {
	cfg := consistency.DefaultConfig()
	if c.Review.Consistency.Enable != nil {
		cfg.Enabled = *c.Review.Consistency.Enable
	}
	if len(c.Review.Consistency.CheckTypes) > 0 {
		cfg.Categories = make([]types.CheckCategory, 0, len(c.Review.Consistency.CheckTypes))
		for _, name := range c.Review.Consistency.CheckTypes {
			cfg.Categories = append(cfg.Categories, types.CheckCategory(name))
		}
	}
	cfg.Tier = llm.ModelTier(c.Review.Tier)
	return cfg
}

// GatewayConfig builds the gateway client settings
func (c *Config) GatewayConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Gateway.Provider != "" {
		cfg.Provider = llm.Provider(c.Gateway.Provider)
	}
	for tier, model := range c.Gateway.Models {
		cfg.Models[llm.ModelTier(tier)] = model
	}
	return cfg
}

// ResolveAPIKey returns the configured API key, falling back to the
// GEMINI_API_KEY environment variable
func (c *Config) ResolveAPIKey() string {
	if c.Gateway.APIKey != "" {
		return c.Gateway.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}
