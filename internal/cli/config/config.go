// Package config loads the aisp tool configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
)

// Config represents the aisp configuration
type Config struct {
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Server   ServerConfig   `mapstructure:"server"`
}

// AnalyzerConfig tunes the validation pipeline
type AnalyzerConfig struct {
	// Tier thresholds over the density score, ascending Bronze..Platinum.
	BronzeThreshold   float64 `mapstructure:"bronze_threshold"`
	SilverThreshold   float64 `mapstructure:"silver_threshold"`
	GoldThreshold     float64 `mapstructure:"gold_threshold"`
	PlatinumThreshold float64 `mapstructure:"platinum_threshold"`
	// MaxAnalysisTime is advisory: exceeding it appends a warning
	// to the report but never aborts analysis.
	MaxAnalysisTime time.Duration `mapstructure:"max_analysis_time"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Thresholds converts the configured cutoffs into the classifier's form.
func (a AnalyzerConfig) Thresholds() semantic.Thresholds {
	return semantic.Thresholds{
		Bronze:   a.BronzeThreshold,
		Silver:   a.SilverThreshold,
		Gold:     a.GoldThreshold,
		Platinum: a.PlatinumThreshold,
	}
}

// Load loads the configuration from aisp.yml or aisp.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("analyzer.bronze_threshold", 0.20)
	v.SetDefault("analyzer.silver_threshold", 0.40)
	v.SetDefault("analyzer.gold_threshold", 0.60)
	v.SetDefault("analyzer.platinum_threshold", 0.75)
	v.SetDefault("analyzer.max_analysis_time", 5*time.Second)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")

	// Set config name and paths
	v.SetConfigName("aisp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	a := cfg.Analyzer
	thresholds := []struct {
		name  string
		value float64
	}{
		{"analyzer.bronze_threshold", a.BronzeThreshold},
		{"analyzer.silver_threshold", a.SilverThreshold},
		{"analyzer.gold_threshold", a.GoldThreshold},
		{"analyzer.platinum_threshold", a.PlatinumThreshold},
	}

	prev := 0.0
	prevName := ""
	for _, t := range thresholds {
		if t.value < 0.0 || t.value > 1.0 {
			return fmt.Errorf("%s must be in [0,1], got: %g", t.name, t.value)
		}
		if prevName != "" && t.value < prev {
			return fmt.Errorf("%s must not be below %s", t.name, prevName)
		}
		prev = t.value
		prevName = t.name
	}

	if a.MaxAnalysisTime < 0 {
		return fmt.Errorf("analyzer.max_analysis_time must not be negative, got: %s", a.MaxAnalysisTime)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got: %d", cfg.Server.Port)
	}

	return nil
}
