// Package config loads runtime settings for the bot and the replay tool:
// built-in defaults, then an optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvFile         = "COLONIZER_CONFIG"
	EnvLogLevel     = "COLONIZER_LOG_LEVEL"
	EnvTechUpgrades = "COLONIZER_TECH_UPGRADES"
	EnvLogRatings   = "COLONIZER_LOG_RATINGS"
	EnvJournal      = "COLONIZER_JOURNAL"
	EnvMemory       = "COLONIZER_MEMORY"
)

// Config holds the tunable settings.
type Config struct {
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
	TechUpgrades bool   `yaml:"tech_upgrades"` // spend TECH_RESEARCH before investing
	LogRatings   bool   `yaml:"log_ratings"`   // log every pair rating each turn
	JournalPath  string `yaml:"journal"`       // replay tool only; empty disables
	MemorySize   int    `yaml:"memory_size"`   // recent turns kept by the driver
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:   "info",
		MemorySize: 10,
	}
}

// Load builds a Config from defaults, the YAML file named by
// COLONIZER_CONFIG if set, and COLONIZER_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.LogLevel = envOrDefault(EnvLogLevel, cfg.LogLevel)
	cfg.TechUpgrades = envBoolOrDefault(EnvTechUpgrades, cfg.TechUpgrades)
	cfg.LogRatings = envBoolOrDefault(EnvLogRatings, cfg.LogRatings)
	cfg.JournalPath = envOrDefault(EnvJournal, cfg.JournalPath)
	cfg.MemorySize = envIntOrDefault(EnvMemory, cfg.MemorySize)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MemorySize < 0 {
		return fmt.Errorf("memory_size must be >= 0, got %d", c.MemorySize)
	}
	return nil
}

// SlogLevel returns the configured log level, Info if it cannot be parsed.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
