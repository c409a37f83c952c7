package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PathsConfig names the directories used by watch mode.
type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

// LoggingConfig controls log verbosity in watch mode.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// WatchConfig is the YAML configuration for watch mode: a directory is
// monitored and every new PDF is converted with these settings.
type WatchConfig struct {
	Paths      PathsConfig   `yaml:"paths"`
	Background string        `yaml:"background"` // background video looped under the narration
	Logging    LoggingConfig `yaml:"logging"`

	MaxConcurrent int `yaml:"max_concurrent"`

	Pipeline Config `yaml:"pipeline"`
}

// Load reads and validates a watch-mode configuration file.
func Load(path string) (*WatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &WatchConfig{Pipeline: *Default()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields and fills in defaults for the rest.
func (c *WatchConfig) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	defaults := Default()
	if c.Pipeline.Narration.WordsPerMinute <= 0 {
		c.Pipeline.Narration.WordsPerMinute = defaults.Narration.WordsPerMinute
	}
	if c.Pipeline.Narration.WordsPerSegment <= 0 {
		c.Pipeline.Narration.WordsPerSegment = defaults.Narration.WordsPerSegment
	}
	if c.Pipeline.Narration.MaxChunkChars <= 0 {
		c.Pipeline.Narration.MaxChunkChars = defaults.Narration.MaxChunkChars
	}
	if c.Pipeline.Narration.MaxCharsPerLine <= 0 {
		c.Pipeline.Narration.MaxCharsPerLine = defaults.Narration.MaxCharsPerLine
	}
	if c.Pipeline.Video.Encoder == "" {
		c.Pipeline.Video.Encoder = defaults.Video.Encoder
	}
	if c.Pipeline.Video.Preset == "" {
		c.Pipeline.Video.Preset = defaults.Video.Preset
	}
	if c.Pipeline.MaxConcurrentChunks <= 0 {
		c.Pipeline.MaxConcurrentChunks = defaults.MaxConcurrentChunks
	}
	if c.Pipeline.MaxRetries <= 0 {
		c.Pipeline.MaxRetries = defaults.MaxRetries
	}
	if c.Pipeline.APIRateLimitPerMin <= 0 {
		c.Pipeline.APIRateLimitPerMin = defaults.APIRateLimitPerMin
	}

	return nil
}
