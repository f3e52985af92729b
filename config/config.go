package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/seeksphere/seeksphere-go/filter"
	"github.com/seeksphere/seeksphere-go/manager"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// EnvPrefix prefixes environment overrides, e.g. SEEKSPHERE_API_BASE_URL
const EnvPrefix = "SEEKSPHERE"

// placeholderAPIKey is the value shipped in the example config
const placeholderAPIKey = "your-org-id-here"

// flagBindings maps config keys to the persistent CLI flags that override them
var flagBindings = map[string]string{
	"api.base_url":  "base-url",
	"api.api_key":   "api-key",
	"api.timeout":   "timeout",
	"logging.level": "log-level",
}

// Load loads the configuration. configPath is optional; without it the
// standard locations are searched and a missing file is not an error.
// Values are layered defaults < file < environment < flags.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("seeksphere")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".seeksphere"))
		}

		// Check /etc
		v.AddConfigPath("/etc/seeksphere/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:3004")
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", seeksphere.DefaultTimeout)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Retry defaults
	v.SetDefault("retry.attempts", manager.DefaultRetryAttempts)
	v.SetDefault("retry.delay", manager.DefaultRetryDelay)

	// Monitor defaults
	v.SetDefault("monitor.interval", manager.DefaultMonitorInterval)
	v.SetDefault("monitor.checks", manager.DefaultMonitorChecks)
	v.SetDefault("monitor.healthy_if", manager.DefaultHealthyExpression)
	v.SetDefault("monitor.threshold", manager.DefaultHealthyThreshold)
}

// validate checks every field and reports all problems at once
func validate(cfg *Config) error {
	var result *multierror.Error

	check := func(key string, value any, rules ...validation.Rule) {
		if err := validation.Validate(value, rules...); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
		}
	}

	check("api.base_url", cfg.API.BaseURL,
		validation.Required.Error("is required"),
		validation.By(httpURL),
	)
	check("api.api_key", cfg.API.APIKey,
		validation.Required.Error("must be set to your organization id"),
		validation.NotIn(placeholderAPIKey).Error("must be set to your organization id"),
	)
	check("api.timeout", cfg.API.Timeout,
		validation.Min(time.Duration(0)).Error("must not be negative"),
	)

	check("logging.level", cfg.Logging.Level,
		validation.Required,
		validation.In("debug", "info", "warn", "error").Error("must be one of debug, info, warn, error"),
	)
	check("logging.format", cfg.Logging.Format,
		validation.Required,
		validation.In("console", "json").Error("must be console or json"),
	)

	check("retry.attempts", cfg.Retry.Attempts,
		validation.Required.Error("must be at least 1"),
		validation.Min(1).Error("must be at least 1"),
	)
	check("retry.delay", cfg.Retry.Delay,
		validation.Min(time.Duration(0)).Error("must not be negative"),
	)

	check("monitor.interval", cfg.Monitor.Interval,
		validation.Required.Error("is required"),
		validation.Min(time.Duration(0)).Error("must be positive"),
	)
	check("monitor.checks", cfg.Monitor.Checks,
		validation.Required.Error("must be at least 1"),
		validation.Min(1).Error("must be at least 1"),
	)
	check("monitor.threshold", cfg.Monitor.Threshold,
		validation.Required.Error("must be greater than 0 and at most 1"),
		validation.Min(0.0).Error("must be greater than 0 and at most 1"),
		validation.Max(1.0).Error("must be greater than 0 and at most 1"),
	)
	check("monitor.healthy_if", cfg.Monitor.HealthyIf,
		validation.Required.Error("is required"),
		validation.By(compiles),
	)

	return result.ErrorOrNil()
}

// httpURL accepts absolute http and https URLs
func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func compiles(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := filter.Compile(s)
	return err
}
