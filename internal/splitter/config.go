// Package splitter provides the chunk segmentation engine: a pure
// function from document text plus configuration to an ordered
// sequence of size-bounded chunks. No I/O, no concurrency.
package splitter

import (
	"fmt"
	"regexp"
)

// Strategy selects how a document is partitioned into chunks. It is a
// closed set, resolved once at configuration-parse time.
type Strategy int

// Segmentation strategies
const (
	// StrategyChapter splits at configured heading-like boundary
	// patterns, falling back to fixed-size when none match.
	StrategyChapter Strategy = iota
	// StrategyParagraph packs blank-line-delimited paragraphs greedily
	// up to the size bound.
	StrategyParagraph
	// StrategyFixedSize advances a character window, snapping the right
	// edge back to sentence, paragraph, or space boundaries.
	StrategyFixedSize
	// StrategySemantic re-packs the paragraph strategy's output. The
	// name is historical: no similarity measure is involved, it is a
	// size-bounded re-packing composition.
	StrategySemantic
)

// String returns the configuration name of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyChapter:
		return "chapter"
	case StrategyParagraph:
		return "paragraph"
	case StrategyFixedSize:
		return "fixed_size"
	case StrategySemantic:
		return "semantic"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a configuration strategy name. Unknown names
// are a configuration error.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "chapter":
		return StrategyChapter, nil
	case "paragraph":
		return StrategyParagraph, nil
	case "fixed_size":
		return StrategyFixedSize, nil
	case "semantic":
		return StrategySemantic, nil
	default:
		return 0, &ConfigError{Field: "strategy", Message: fmt.Sprintf("unsupported strategy: %q", name)}
	}
}

// ConfigError represents an invalid segmentation configuration. It is
// fatal: segmentation refuses to start with a bad config.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("segmentation config error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("segmentation config error: %s", e.Message)
}

// Config bounds and parameterizes segmentation. Sizes and offsets are
// measured in characters (runes), matching chunk Start/End offsets.
type Config struct {
	Strategy         Strategy
	MaxChunkSize     int
	MinChunkSize     int
	Overlap          int
	BoundaryPatterns []string

	compiled []*regexp.Regexp
}

// DefaultConfig returns the engine defaults: chapter strategy with an
// 8000-character bound and a 200-character overlap window.
func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyChapter,
		MaxChunkSize: 8000,
		MinChunkSize: 1000,
		Overlap:      200,
	}
}

// Validate checks bounds and compiles boundary patterns. Patterns that
// fail to compile are dropped; the remaining ones are kept.
func (c *Config) Validate() error {
	if c.MaxChunkSize <= 0 {
		return &ConfigError{Field: "maxChunkSize", Message: "must be positive"}
	}
	if c.MinChunkSize < 0 {
		return &ConfigError{Field: "minChunkSize", Message: "must be non-negative"}
	}
	if c.MinChunkSize > c.MaxChunkSize {
		return &ConfigError{Field: "minChunkSize", Message: "must not exceed maxChunkSize"}
	}
	if c.Overlap < 0 || c.Overlap >= c.MaxChunkSize {
		return &ConfigError{Field: "overlap", Message: "must satisfy 0 <= overlap < maxChunkSize"}
	}

	c.compiled = c.compiled[:0]
	for _, pattern := range c.BoundaryPatterns {
		re, err := regexp.Compile("(?mi)" + pattern)
		if err != nil {
			continue
		}
		c.compiled = append(c.compiled, re)
	}
	return nil
}
