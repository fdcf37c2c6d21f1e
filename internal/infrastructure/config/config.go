// Package config loads CLI configuration from the config file and
// environment, with environment taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAPIEndpoint is used when neither the file nor the environment sets
// one.
const DefaultAPIEndpoint = "https://api.modelstash.io"

// Config holds the settings the client layer needs.
type Config struct {
	APIEndpoint string `json:"api_endpoint"`
}

// Load reads config from the default file location, then applies environment
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := &Config{APIEndpoint: DefaultAPIEndpoint}

	path, err := defaultPath()
	if err == nil {
		if fileCfg, err := loadFile(path); err == nil && fileCfg.APIEndpoint != "" {
			cfg.APIEndpoint = fileCfg.APIEndpoint
		}
	}

	if endpoint := os.Getenv("STASH_API_URL"); endpoint != "" {
		cfg.APIEndpoint = endpoint
	}

	cfg.APIEndpoint = strings.TrimRight(cfg.APIEndpoint, "/")
	return cfg, nil
}

// Save writes the config to the default file location.
func Save(cfg *Config) error {
	path, err := defaultPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stash", "config.json"), nil
}
