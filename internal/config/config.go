// Package config loads the manifest configuration from YAML with
// environment overrides. A .env file in the working directory is honored
// when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all manifest configuration.
type Config struct {
	// DataDir is where the archive database and logs live.
	DataDir string `yaml:"data_dir"`

	Gateway GatewayConfig `yaml:"gateway"`
	Focus   FocusConfig   `yaml:"focus"`
	Logging LoggingConfig `yaml:"logging"`
}

// GatewayConfig configures the Gemini adapter.
type GatewayConfig struct {
	APIKey      string `yaml:"api_key"`
	TextModel   string `yaml:"text_model"`
	ImageModel  string `yaml:"image_model"`
	AspectRatio string `yaml:"aspect_ratio"`
	Timeout     string `yaml:"timeout"`
	CacheTTL    string `yaml:"cache_ttl"`
}

// FocusConfig paces the focus sequence.
type FocusConfig struct {
	TickInterval  string `yaml:"tick_interval"`
	FlashDuration string `yaml:"flash_duration"`
	BurstDuration string `yaml:"burst_duration"`
}

// LoggingConfig configures the file logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".manifest"),
		Gateway: GatewayConfig{
			TextModel:   "gemini-3-flash-preview",
			ImageModel:  "gemini-2.5-flash-image",
			AspectRatio: "16:9",
			Timeout:     "60s",
			CacheTTL:    "10m",
		},
		Focus: FocusConfig{
			TickInterval:  "60ms",
			FlashDuration: "500ms",
			BurstDuration: "1200ms",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the config file at path (or the default location when path is
// empty), then applies environment overrides. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("MANIFEST_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("MANIFEST_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MANIFEST_TEXT_MODEL"); v != "" {
		cfg.Gateway.TextModel = v
	}
	if v := os.Getenv("MANIFEST_IMAGE_MODEL"); v != "" {
		cfg.Gateway.ImageModel = v
	}
	if v := os.Getenv("MANIFEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// ArchivePath is the location of the archive database.
func (c Config) ArchivePath() string {
	return filepath.Join(c.DataDir, "archive.db")
}

// LogPath is the location of the rotating log file.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "manifest.log")
}

// Duration parses a duration field, falling back when unset or invalid.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
