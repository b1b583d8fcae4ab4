// Package config loads application configuration from defaults, an
// optional YAML file, and environment variables, in increasing order of
// precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Fetch    FetchConfig    `yaml:"fetch" envconfig:"FETCH"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"` // "stdout", "file", "both"
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// FetchConfig contains bulletin retrieval configuration.
type FetchConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int           `yaml:"burst" envconfig:"BURST"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	MaxDocumentBytes  int64         `yaml:"max_document_bytes" envconfig:"MAX_DOCUMENT_BYTES"`
}

// PipelineConfig contains batch extraction configuration.
type PipelineConfig struct {
	Workers int `yaml:"workers" envconfig:"WORKERS"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Fetch: FetchConfig{
			BaseURL:           "https://travel.state.gov/content/dam/visas/Bulletins/",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
			UserAgent:         "visatrack/1.0",
			MaxDocumentBytes:  20 << 20, // 20MB
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
	}
}

// Load builds the configuration: defaults, then the config file if present,
// then VISATRACK_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("VISATRACK", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// validate checks the configuration for values the application cannot run with.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Fetch.BaseURL == "" {
		return fmt.Errorf("fetch base URL must not be empty")
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetch rate must be positive")
	}
	if c.Fetch.Burst <= 0 {
		return fmt.Errorf("fetch burst must be positive")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline workers must be positive")
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	return nil
}

// configFilePath returns the first config file found in common locations,
// or "" when only defaults and env vars apply.
func configFilePath() string {
	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
