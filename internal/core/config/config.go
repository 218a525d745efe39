package config

import (
	"time"
)

// DefaultRegistryURL is used when neither flag, environment, nor config
// file names a registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Registry RegistryConfig `yaml:"registry"`
	Publish  PublishConfig  `yaml:"publish"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RegistryConfig holds registry endpoint settings.
type RegistryConfig struct {
	URL string `yaml:"url"`
}

// PublishConfig holds orchestrator timing settings. Zero values are
// replaced with defaults by the loader; AttemptTimeout stays zero unless
// set, which means publish attempts run unbounded.
type PublishConfig struct {
	Budget           time.Duration `yaml:"budget"`
	PollWindow       time.Duration `yaml:"poll_window"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	InitialDelay     time.Duration `yaml:"initial_delay"`
	MaxDelay         time.Duration `yaml:"max_delay"`
	MaxJitter        time.Duration `yaml:"max_jitter"`
	AttemptTimeout   time.Duration `yaml:"attempt_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig holds Pushgateway settings. Empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	JobName        string `yaml:"job_name"`
}
