// Package config provides configuration types and defaults for dqs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/dqs/internal/log"
)

// Config holds all configuration options for dqs.
type Config struct {
	Database    string        `mapstructure:"database"`    // sqlite file backing the people table
	Definitions string        `mapstructure:"definitions"` // YAML serialization definitions; empty uses the built-in set
	Cache       CacheConfig   `mapstructure:"cache"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	Log         LogConfig     `mapstructure:"log"`
	Request     RequestConfig `mapstructure:"request"`
}

// CacheConfig controls the result cache used when executing serializations.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// TracingConfig holds tracing configuration for execution spans.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "stdout"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// RequestConfig controls keyed request decoding.
type RequestConfig struct {
	Prefix    string `mapstructure:"prefix"`     // shared prefix of every field
	NameField string `mapstructure:"name_field"` // field holding the serialization name
}

// DefaultDatabasePath returns ~/.config/dqs/people.db, or "people.db" in the
// current directory if the home dir is unavailable.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "people.db"
	}
	return filepath.Join(home, ".config", "dqs", "people.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Database: DefaultDatabasePath(),
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "dqs",
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
		Request: RequestConfig{
			NameField: "name",
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.Database == "" {
		return fmt.Errorf("database is required")
	}
	if err := ValidateCache(cfg.Cache); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	return nil
}

// ValidateCache checks cache configuration for errors.
func ValidateCache(cache CacheConfig) error {
	if cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cache.TTL)
	}
	if cache.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanup_interval must not be negative, got %v", cache.CleanupInterval)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# dqs configuration

# sqlite database holding the people table (default: ~/.config/dqs/people.db)
# database: ./people.db

# YAML file with serialization definitions (default: built-in definitions)
# definitions: ./serializations.yaml

# Result cache for executed serializations
cache:
  enabled: true
  ttl: 5m
  cleanup_interval: 10m

# Request decoding
request:
  prefix: ""        # Shared prefix for request fields
  name_field: name  # Field holding the serialization name

# Debug logging (also enabled by --debug or DQS_DEBUG=1)
log:
  debug: false
  path: debug.log
  level: debug

# Tracing (disabled by default)
# tracing:
#   enabled: true
#   exporter: stdout
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
