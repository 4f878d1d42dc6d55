package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. Values may reference
// environment variables ($VAR), which are expanded after an optional .env
// file is loaded.
func Load(path string) (*AppConfig, error) {
	// Best effort; a missing .env just means the environment is already set.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = 500 * time.Millisecond
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 5 * time.Second
	}
	if cfg.Retry.BackoffMultiplier == 0 {
		cfg.Retry.BackoffMultiplier = 2.0
	}
	if cfg.Research.MaxSteps == 0 {
		cfg.Research.MaxSteps = 10
	}
	if cfg.Research.OutputDir == "" {
		cfg.Research.OutputDir = "sessions"
	}

	if cfg.Backend.URL == "" {
		return nil, fmt.Errorf("backend.url is required")
	}
	if err := cfg.Retry.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}

	return &cfg, nil
}
