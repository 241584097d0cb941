// Package config loads clausify configuration from clausify.yaml with
// defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all clausify settings.
type Config struct {
	// Lexicon is the word/pattern database path (.json or .gob).
	Lexicon string `yaml:"lexicon"`

	// ReviewLog collects unknown words and unparsed sentences.
	ReviewLog string `yaml:"review_log"`

	// Rules is the default rules file for the query engine.
	Rules string `yaml:"rules"`

	Engine  EngineConfig  `yaml:"engine"`
	Datalog DatalogConfig `yaml:"datalog"`
}

// EngineConfig bounds the Prolog-like query engine.
type EngineConfig struct {
	QueryTimeout string `yaml:"query_timeout"` // Go duration string
	MaxResults   int    `yaml:"max_results"`
}

// DatalogConfig bounds the Mangle engine.
type DatalogConfig struct {
	FactLimit    int    `yaml:"fact_limit"`
	QueryTimeout string `yaml:"query_timeout"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Lexicon:   "lexicon.json",
		ReviewLog: "review.log",
		Rules:     "",
		Engine: EngineConfig{
			QueryTimeout: "5s",
			MaxResults:   10000,
		},
		Datalog: DatalogConfig{
			FactLimit:    100000,
			QueryTimeout: "30s",
		},
	}
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CLAUSIFY_LEXICON"); v != "" {
		c.Lexicon = v
	}
	if v := os.Getenv("CLAUSIFY_REVIEW_LOG"); v != "" {
		c.ReviewLog = v
	}
	if v := os.Getenv("CLAUSIFY_RULES"); v != "" {
		c.Rules = v
	}
}

// EngineTimeout parses the engine query timeout, defaulting to 5s.
func (c *Config) EngineTimeout() time.Duration {
	return parseDuration(c.Engine.QueryTimeout, 5*time.Second)
}

// DatalogTimeout parses the datalog query timeout, defaulting to 30s.
func (c *Config) DatalogTimeout() time.Duration {
	return parseDuration(c.Datalog.QueryTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
