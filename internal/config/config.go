package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tunable knobs loaded from a TOML file. Connection strings
// and secrets come from the environment in main; this file covers the
// queueing and alerting behavior.
type Config struct {
	Queuing  QueuingConfig  `toml:"queuing"`
	Alerting AlertingConfig `toml:"alerting"`
}

// QueuingConfig contains asynq worker settings
type QueuingConfig struct {
	Concurrency     int            `toml:"concurrency"`
	Queues          []string       `toml:"queues"`
	QueuePriorities map[string]int `toml:"queue_priorities"`
}

// AlertingConfig contains the periodic job intervals
type AlertingConfig struct {
	ScanIntervalMinutes         int `toml:"scan_interval_minutes"`
	StatsRefreshIntervalMinutes int `toml:"stats_refresh_interval_minutes"`
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	config.applyDefaults()
	return config, nil
}

// DefaultConfig is used when no config file is present.
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Queuing.Concurrency <= 0 {
		c.Queuing.Concurrency = 5
	}
	if len(c.Queuing.QueuePriorities) == 0 {
		c.Queuing.QueuePriorities = map[string]int{"default": 1}
	}
	if c.Alerting.ScanIntervalMinutes <= 0 {
		c.Alerting.ScanIntervalMinutes = 30
	}
	if c.Alerting.StatsRefreshIntervalMinutes <= 0 {
		c.Alerting.StatsRefreshIntervalMinutes = 5
	}
}

func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Alerting.ScanIntervalMinutes) * time.Minute
}

func (c *Config) StatsRefreshInterval() time.Duration {
	return time.Duration(c.Alerting.StatsRefreshIntervalMinutes) * time.Minute
}
