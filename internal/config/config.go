// Package config manages application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Environment variables that override the configuration file.
const (
	EnvGuessMimeType = "GLTFIMPORT_GUESS_MIME"
	EnvLogLevel      = "GLTFIMPORT_LOG_LEVEL"
	EnvConfigPath    = "GLTFIMPORT_CONFIG"
)

// Config represents the application configuration.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ImportConfig controls how resources are materialized.
type ImportConfig struct {
	// GuessMimeType enables content sniffing when an image's format
	// cannot be determined from its media type or file extension.
	GuessMimeType bool `yaml:"guess_mime_type"`
}

// OutputConfig controls texture extraction.
type OutputConfig struct {
	ImagesDir      string `yaml:"images_dir"`
	MaxTextureSize int    `yaml:"max_texture_size"` // 0 keeps the original size
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Import: ImportConfig{
			GuessMimeType: false,
		},
		Output: OutputConfig{
			ImagesDir:      "textures",
			MaxTextureSize: 0,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv() {
	if GetEnvBool(EnvGuessMimeType) {
		c.Import.GuessMimeType = true
	}
	c.Log.Level = GetEnvOrDefault(EnvLogLevel, c.Log.Level)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.Log.Level)
}

// ParseLevel converts a level name to a slog.Level. An empty name is warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level: %s", name)
	}
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"import.guess_mime_type",
	"output.images_dir",
	"output.max_texture_size",
	"log.level",
	"metrics.textfile",
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "import.guess_mime_type":
		return strconv.FormatBool(c.Import.GuessMimeType), nil
	case "output.images_dir":
		return c.Output.ImagesDir, nil
	case "output.max_texture_size":
		return strconv.Itoa(c.Output.MaxTextureSize), nil
	case "log.level":
		return c.Log.Level, nil
	case "metrics.textfile":
		return c.Metrics.Textfile, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set parses value and assigns it to a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "import.guess_mime_type":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.Import.GuessMimeType = b
	case "output.images_dir":
		c.Output.ImagesDir = value
	case "output.max_texture_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("invalid value for %s: must not be negative", key)
		}
		c.Output.MaxTextureSize = n
	case "log.level":
		if _, err := ParseLevel(value); err != nil {
			return err
		}
		c.Log.Level = value
	case "metrics.textfile":
		c.Metrics.Textfile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
