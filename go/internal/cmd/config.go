package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/scorecast/go/internal/scoreboard/feed"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/gateway"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/source"
)

// Config is the scoreboard server configuration. Values come from DefaultConfig,
// then the yaml file, then the environment.
type Config struct {
	Port           string   `yaml:"port" envconfig:"PORT"`
	LogLevel       string   `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat      string   `yaml:"log_format" envconfig:"LOG_FORMAT"`
	Timezone       string   `yaml:"timezone" envconfig:"TIMEZONE"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`

	Source  source.Config  `yaml:"source" envconfig:"SOURCE"`
	Feed    feed.Config    `yaml:"feed" envconfig:"FEED"`
	Gateway gateway.Config `yaml:"gateway" envconfig:"GATEWAY"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Port:           "8080",
		LogLevel:       "info",
		LogFormat:      "console",
		AllowedOrigins: []string{"*"},
		Source:         source.DefaultConfig(),
		Feed:           feed.DefaultConfig(),
		Gateway:        gateway.DefaultConfig(),
	}
}

// loadConfig reads path over the defaults, if it exists, and applies environment overrides
func loadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return &config, nil
}

// location resolves the clock time zone
func (c *Config) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
