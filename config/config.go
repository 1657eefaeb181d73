// Package config provides TOML-based configuration for bysykkel.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hsbacot/bysykkel/client"
)

// Config is the full configuration file
type Config struct {
	LogLevel   string           `toml:"log_level"`
	GBFS       GBFSConfig       `toml:"gbfs"`
	AirQuality AirQualityConfig `toml:"air_quality"`
}

// GBFSConfig configures the bike-share page
type GBFSConfig struct {
	BaseURL       string   `toml:"base_url"`
	DefaultSystem string   `toml:"default_system"`
	Systems       []string `toml:"systems"`
}

// AirQualityConfig configures the air quality page
type AirQualityConfig struct {
	BaseURL     string   `toml:"base_url"`
	DefaultArea string   `toml:"default_area"`
	Areas       []string `toml:"areas"`
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/bysykkel/config.toml
//  2. ~/.config/bysykkel/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	cfg.fillEmpty()
	return cfg, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		GBFS: GBFSConfig{
			BaseURL: client.DefaultGBFSBaseURL,
			Systems: []string{
				"oslobysykkel.no",
				"bergenbysykkel.no",
				"trondheimbysykkel.no",
				"edinburghcyclehire.com",
				"oslovintersykkel.no",
			},
		},
		AirQuality: AirQualityConfig{
			BaseURL: client.DefaultAirQualityBaseURL,
			Areas:   []string{"Oslo", "Bergen", "Trondheim", "Stavanger", "Tromsø"},
		},
	}
}

// fillEmpty restores defaults a file explicitly blanked out
func (c *Config) fillEmpty() {
	def := DefaultConfig()
	if c.GBFS.BaseURL == "" {
		c.GBFS.BaseURL = def.GBFS.BaseURL
	}
	if len(c.GBFS.Systems) == 0 {
		c.GBFS.Systems = def.GBFS.Systems
	}
	if c.AirQuality.BaseURL == "" {
		c.AirQuality.BaseURL = def.AirQuality.BaseURL
	}
	if len(c.AirQuality.Areas) == 0 {
		c.AirQuality.Areas = def.AirQuality.Areas
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BYSYKKEL_SYSTEM"); v != "" {
		cfg.GBFS.DefaultSystem = v
	}
	if v := os.Getenv("BYSYKKEL_AREA"); v != "" {
		cfg.AirQuality.DefaultArea = v
	}
	if v := os.Getenv("BYSYKKEL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func configSearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "bysykkel", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "bysykkel", "config.toml"))
	}
	return paths
}
