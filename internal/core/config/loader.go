package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. An empty path returns the
// defaults, so running without a config file is fine; an explicit path
// that cannot be read is an error.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	// Precedence: NPM_REGISTRY beats the config file value; the CLI
	// flag beats both and is applied by the caller.
	if env := os.Getenv("NPM_REGISTRY"); env != "" {
		cfg.Registry.URL = env
	} else if cfg.Registry.URL == "" {
		cfg.Registry.URL = DefaultRegistryURL
	}

	if cfg.Publish.Budget == 0 {
		cfg.Publish.Budget = 15 * time.Minute
	}
	if cfg.Publish.PollWindow == 0 {
		cfg.Publish.PollWindow = 5 * time.Minute
	}
	if cfg.Publish.PollInterval == 0 {
		cfg.Publish.PollInterval = 5 * time.Second
	}
	if cfg.Publish.ProgressInterval == 0 {
		cfg.Publish.ProgressInterval = 15 * time.Second
	}
	if cfg.Publish.InitialDelay == 0 {
		cfg.Publish.InitialDelay = 5 * time.Second
	}
	if cfg.Publish.MaxDelay == 0 {
		cfg.Publish.MaxDelay = 60 * time.Second
	}
	if cfg.Publish.MaxJitter == 0 {
		cfg.Publish.MaxJitter = 3 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Metrics.JobName == "" {
		cfg.Metrics.JobName = "npmship"
	}
}
