package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, loaded from a YAML file.
type Config struct {
	Source struct {
		Type     string `yaml:"type"`      // message source kind, JSON is the only implemented backend
		FilePath string `yaml:"file_path"` // path to the exported chat JSON
	} `yaml:"source"`
	Database struct {
		Path string `yaml:"path"` // sqlite database file
	} `yaml:"database"`
	Extraction struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	} `yaml:"extraction"`
	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or NOOP
		Model       string  `yaml:"model"`
		APIKey      string  `yaml:"api_key"` // optional, falls back to provider env var
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Dashboard struct {
		Addr string `yaml:"addr"`
	} `yaml:"dashboard"`
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI', 'CLAUDE' or 'NOOP'", c.LLM.Provider)
	}
	if c.Extraction.ConfidenceThreshold < 0 || c.Extraction.ConfidenceThreshold > 1 {
		return fmt.Errorf("extraction.confidence_threshold must be within [0,1], got %.2f", c.Extraction.ConfidenceThreshold)
	}
	if c.Source.Type != "JSON" {
		return fmt.Errorf("invalid source.type '%s': must be 'JSON'", c.Source.Type)
	}
	if c.Source.FilePath == "" {
		return fmt.Errorf("source.file_path cannot be empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a configuration with all defaults applied, used
// when no config file is present.
func DefaultConfig() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Source.Type == "" {
		c.Source.Type = "JSON"
	}
	if c.Source.FilePath == "" {
		c.Source.FilePath = "dc_tracker.json"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/trading_actions.db"
	}
	if c.Extraction.ConfidenceThreshold == 0 {
		c.Extraction.ConfidenceThreshold = 0.7
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = ":8090"
	}
}
