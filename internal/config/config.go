// Package config reads runtime settings from PCAM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultNamespace prefixes every key the store writes.
const DefaultNamespace = "4pcam_"

// Config holds all runtime configuration.
type Config struct {
	DBPath       string
	Namespace    string
	Catalog      string
	Debounce     time.Duration
	QuotaBytes   int64
	MaxAutosaves int
	LogUseCases  bool
}

// DefaultConfig returns the configuration used when no variables are set.
// DBPath is left empty; Resolve fills it from the home directory.
func DefaultConfig() Config {
	return Config{
		Namespace:    DefaultNamespace,
		Catalog:      "default",
		Debounce:     time.Second,
		QuotaBytes:   5 << 20,
		MaxAutosaves: 10,
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PCAM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PCAM_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv("PCAM_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv("PCAM_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Debounce = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("PCAM_QUOTA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.QuotaBytes = n
		}
	}
	if v := os.Getenv("PCAM_MAX_AUTOSAVES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAutosaves = n
		}
	}
	if v := os.Getenv("PCAM_LOG_USECASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}

	return cfg
}

// Resolve fills DBPath with ~/.pcam/pcam.db when it is unset.
func (c Config) Resolve() (Config, error) {
	if c.DBPath != "" {
		return c, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c, fmt.Errorf("finding home directory: %w", err)
	}
	c.DBPath = filepath.Join(home, ".pcam", "pcam.db")
	return c, nil
}
