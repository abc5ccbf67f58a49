package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/benaskins/gpuinfo/internal/report"
	"gopkg.in/yaml.v3"
)

// Config holds optional settings loaded from a YAML file passed with --config.
// Command-line flags override every field.
type Config struct {
	Interval    *float64 `yaml:"interval"`
	Mode        string   `yaml:"mode"`
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
}

// Load reads a YAML config file from path. If the file does not exist,
// it returns an empty Config and no error. An empty or all-comment file
// also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Interval != nil {
		if err := ValidateInterval(*c.Interval); err != nil {
			return err
		}
	}
	if _, err := report.ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// MaxIntervalSeconds is the longest interval a time.Duration can hold.
const MaxIntervalSeconds = float64(math.MaxInt64) / float64(time.Second)

// ValidateInterval rejects intervals that cannot be slept for.
func ValidateInterval(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return fmt.Errorf("interval must be a finite, non-negative number of seconds, got %v", seconds)
	}
	if seconds >= MaxIntervalSeconds {
		return fmt.Errorf("interval must be below %.0f seconds, got %v", MaxIntervalSeconds, seconds)
	}
	return nil
}
