package config

import (
	"time"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Monitor MonitorConfig `mapstructure:"monitor"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// APIConfig holds SeekSphere API connection details
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClientConfig converts the section into a client configuration
func (c APIConfig) ClientConfig() seeksphere.Config {
	return seeksphere.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Timeout: c.Timeout,
	}
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// RetryConfig controls caller-level retries on top of the client's own
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// MonitorConfig contains health monitoring settings
type MonitorConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Checks    int           `mapstructure:"checks"`
	HealthyIf string        `mapstructure:"healthy_if"`
	Threshold float64       `mapstructure:"threshold"`
}
