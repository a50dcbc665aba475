package config

import (
	"scamdunk-ingest/pkg/config"
)

// Ingest holds ingestion-specific configuration.
type Ingest struct {
	// DataDir is where the external scanner drops evaluation JSON files.
	DataDir string `mapstructure:"data_dir"`
	// ReportDir is where social-media/press markdown reports land.
	ReportDir string `mapstructure:"report_dir"`
	// CronSpec drives the schedule subcommand.
	CronSpec string `mapstructure:"cron_spec"`
}

// Config holds the full configuration for the ingestion CLI.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Ingest   Ingest          `mapstructure:"ingest"`
}

// Load loads the ingestion configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
