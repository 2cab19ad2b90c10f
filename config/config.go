package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything a run needs. Values come from the environment
// first; an optional YAML file overlays the tunable knobs. Credentials and
// the dry-run flag are environment-only and never read from a file.
type Config struct {
	Twitter TwitterConfig `yaml:"-"`
	DryRun  bool          `yaml:"-"`

	Quote       string `yaml:"quote"`
	TopCount    int    `yaml:"top_count"`
	Interval    string `yaml:"interval"`
	CandleCount int    `yaml:"candle_count"`
	ScanDelay   string `yaml:"scan_delay"` // e.g. "50ms"
	MaxRetries  int    `yaml:"max_retries"`
	ChartPath   string `yaml:"chart_path"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
}

// TwitterConfig carries the four credential values for the posting API.
type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four credential values are present.
func (t TwitterConfig) Complete() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// Default returns a configuration with sensible defaults. Dry run starts
// active; going live requires an explicit opt-out.
func Default() *Config {
	return &Config{
		DryRun:      true,
		Quote:       "USDT",
		TopCount:    100,
		Interval:    "1h",
		CandleCount: 24,
		ScanDelay:   "50ms",
		MaxRetries:  5,
		ChartPath:   "crypto_chart.png",
		LogFile:     "bot.log",
		LogLevel:    "info",
	}
}

// FromEnv builds a config from the process environment on top of defaults.
func FromEnv() *Config {
	cfg := Default()
	cfg.Twitter = TwitterConfig{
		APIKey:       os.Getenv("TWITTER_API_KEY"),
		APISecret:    os.Getenv("TWITTER_API_SECRET"),
		AccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
	}
	cfg.DryRun = ParseDryRun(os.Getenv("DRY_RUN"))
	return cfg
}

// ParseDryRun implements the single documented dry-run rule: dry run stays
// active unless the value is exactly false/0/no/off, case-insensitive.
// Absence means active.
func ParseDryRun(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "no", "off":
		return false
	}
	return true
}

// LoadFile overlays the tunable knobs from a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// ParseScanDelay converts the scan_delay string to a duration.
func (c *Config) ParseScanDelay() (time.Duration, error) {
	if c.ScanDelay == "" {
		return 0, nil
	}
	return time.ParseDuration(c.ScanDelay)
}

// Validate checks if the configuration is valid. Missing credentials are not
// a validation error: the poster reports them as a structured failure.
func (c *Config) Validate() error {
	if c.Quote == "" {
		return fmt.Errorf("quote is required")
	}
	if c.TopCount <= 0 {
		return fmt.Errorf("top_count must be positive")
	}
	if c.Interval == "" {
		return fmt.Errorf("interval is required")
	}
	if c.CandleCount < 2 {
		return fmt.Errorf("candle_count must be at least 2")
	}
	d, err := c.ParseScanDelay()
	if err != nil {
		return fmt.Errorf("bad scan_delay %q: %w", c.ScanDelay, err)
	}
	if d < 0 {
		return fmt.Errorf("scan_delay must not be negative")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive")
	}
	if c.ChartPath == "" {
		return fmt.Errorf("chart_path is required")
	}
	return nil
}
