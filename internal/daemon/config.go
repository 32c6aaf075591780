// Package daemon manages the focusd daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API          APIConfig        `toml:"api"`
	Storage      StorageConfig    `toml:"storage"`
	Classifier   ClassifierConfig `toml:"classifier"`
	Usage        UsageConfig      `toml:"usage"`
	Telemetry    TelemetryConfig  `toml:"telemetry"`
	Logging      LoggingConfig    `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// ClassifierConfig adds user patterns on top of the built-in rules.
type ClassifierConfig struct {
	ProductiveApps   []string `toml:"productive_apps"`
	DistractingApps  []string `toml:"distracting_apps"`
	ProductiveSites  []string `toml:"productive_sites"`
	DistractingSites []string `toml:"distracting_sites"`
}

// UsageConfig tunes summary computation.
type UsageConfig struct {
	TopN int `toml:"top_n"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := focusdHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7600,
		},
		Storage: StorageConfig{
			Dir: homeDir,
		},
		Usage: UsageConfig{
			TopN: 5,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "focusd.log"),
		},
	}
}

// LoadConfig reads config from ~/.focusd/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(focusdHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Usage.TopN <= 0 {
		cfg.Usage.TopN = 5
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.focusd/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(focusdHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// focusdHome returns the focusd data directory.
func focusdHome() string {
	if env := os.Getenv("FOCUSD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".focusd")
}

// FocusdHome is exported for use by other packages.
func FocusdHome() string {
	return focusdHome()
}
