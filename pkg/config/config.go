package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agusespa/testscope/internal/types"
)

type Config struct {
	Repo     string          `yaml:"repo"`
	Log      LogConfig       `yaml:"log"`
	Engine   EngineConfig    `yaml:"engine"`
	Corpus   CorpusConfig    `yaml:"corpus"`
	Advisor  AdvisorConfig   `yaml:"advisor"`
	Features []FeatureConfig `yaml:"features"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EngineConfig struct {
	Strategies             []string           `yaml:"strategies"`
	Weights                map[string]float64 `yaml:"weights"`
	StrategyTimeoutSeconds int                `yaml:"strategy_timeout_seconds"`
	ParseWorkers           int                `yaml:"parse_workers"`
	FileTimeoutSeconds     int                `yaml:"file_timeout_seconds"`
}

type CorpusConfig struct {
	Framework string `yaml:"framework"`
	Root      string `yaml:"root"`
}

type AdvisorConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type FeatureConfig struct {
	Name           string            `yaml:"name"`
	SourcePatterns []string          `yaml:"source_patterns"`
	TestPatterns   []string          `yaml:"test_patterns"`
	Confidence     float64           `yaml:"confidence"`
	Metadata       map[string]string `yaml:"metadata"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Repo == "" {
		c.Repo = "."
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Corpus.Root == "" {
		c.Corpus.Root = c.Repo
	}
	if c.Corpus.Framework == "" {
		c.Corpus.Framework = "jest"
	}
}

func (c *Config) validate() error {
	for id, weight := range c.Engine.Weights {
		if weight < 0 {
			return fmt.Errorf("strategy weight for %s must not be negative", id)
		}
	}
	for _, f := range c.Features {
		if f.Name == "" {
			return fmt.Errorf("feature with empty name in config")
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			return fmt.Errorf("feature %s: confidence %v outside [0,1]", f.Name, f.Confidence)
		}
	}
	if c.Advisor.Enabled && c.Advisor.Provider == "" {
		return fmt.Errorf("advisor enabled but no provider configured")
	}
	return nil
}

// FeatureDefinitions converts the configured features into registry inputs,
// preserving declaration order.
func (c *Config) FeatureDefinitions() []types.FeatureDefinition {
	defs := make([]types.FeatureDefinition, 0, len(c.Features))
	for _, f := range c.Features {
		defs = append(defs, types.FeatureDefinition{
			Name:             f.Name,
			SourcePatterns:   f.SourcePatterns,
			TestPatterns:     f.TestPatterns,
			StaticConfidence: f.Confidence,
			Metadata:         f.Metadata,
		})
	}
	return defs
}
