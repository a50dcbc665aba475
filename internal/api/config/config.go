package config

import (
	"scamdunk-ingest/pkg/config"
)

// Cache holds response cache settings.
type Cache struct {
	TTL             string `mapstructure:"ttl"`
	CleanupInterval string `mapstructure:"cleanup_interval"`
}

// Config holds the full configuration for the dashboard API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	Cache    Cache           `mapstructure:"cache"`
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
