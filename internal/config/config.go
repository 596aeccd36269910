// Package config loads the Hudu MCP service configuration from defaults, an
// optional config file, and HUDU-prefixed environment variables, in that
// order of precedence.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/localrivet/configurator"
)

// Config represents the Hudu MCP service configuration
type Config struct {
	// Hudu contains connection settings for the Hudu instance.
	Hudu struct {
		// BaseURL is the root URL of the Hudu instance.
		BaseURL string `json:"base_url" env:"BASE_URL" validate:"required"`

		// APIKey is the static API credential.
		APIKey string `json:"api_key" env:"API_KEY" validate:"required"`

		// TimeoutSeconds bounds each outbound API request.
		TimeoutSeconds int `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	} `json:"hudu"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL"`

		// Format is the log format ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".hudumcpconfig"
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"

	// EnvPrefix namespaces the environment variables, e.g.
	// HUDU_API_KEY and HUDU_BASE_URL.
	EnvPrefix = "HUDU"
)

// NewConfig creates a Config with default values
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Hudu.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat
	return cfg
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path. A
// missing config file is not an error; environment variables alone can
// carry the required settings.
func LoadConfigWithPath(configPath string) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := NewConfig()

	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file", "path", foundPath)
		}
	}

	loader := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider())

	if _, err := os.Stat(configPath); err == nil {
		stdLogger.Info("Loading configuration", "path", configPath)
		loader = loader.WithProvider(configurator.NewFileProvider(configPath))
	} else {
		stdLogger.Info("Config file not found, using environment configuration", "path", configPath)
	}

	loader = loader.
		WithProvider(configurator.NewEnvProvider(EnvPrefix)).
		WithValidator(configurator.NewDefaultValidator())

	ctx := context.Background()
	if err := loader.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Hudu.TimeoutSeconds <= 0 {
		cfg.Hudu.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return cfg, nil
}
