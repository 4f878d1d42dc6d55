package config

import (
	"time"

	"github.com/vietddude/inquest/internal/infra/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Backend  BackendConfig  `yaml:"backend"`
	Retry    RetryConfig    `yaml:"retry"`
	Research ResearchConfig `yaml:"research"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BackendConfig holds knowledge-backend connection settings.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig holds backoff settings for backend calls.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialDelay      time.Duration `yaml:"initial_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	JitterFraction    float64       `yaml:"jitter_fraction"`
}

// ResearchConfig holds loop settings.
type ResearchConfig struct {
	MaxSteps  int    `yaml:"max_steps"`  // upper bound on -steps
	OutputDir string `yaml:"output_dir"` // where session reports are written
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Policy converts the retry section into an engine policy.
func (c RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts:       c.MaxAttempts,
		InitialDelay:      c.InitialDelay,
		MaxDelay:          c.MaxDelay,
		BackoffMultiplier: c.BackoffMultiplier,
		JitterFraction:    c.JitterFraction,
	}
}
