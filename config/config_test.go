package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.DryRun, "dry run starts active")
	assert.Equal(t, "USDT", cfg.Quote)
	assert.Equal(t, 100, cfg.TopCount)
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestParseDryRun(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"true", true},
		{"1", true},
		{"yes", true},
		{"anything", true},
		{"false", false},
		{"FALSE", false},
		{"False", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"OFF", false},
		{"  off  ", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDryRun(tt.value))
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "k")
	t.Setenv("TWITTER_API_SECRET", "s")
	t.Setenv("TWITTER_ACCESS_TOKEN", "at")
	t.Setenv("TWITTER_ACCESS_TOKEN_SECRET", "ats")
	t.Setenv("DRY_RUN", "false")

	cfg := FromEnv()
	assert.True(t, cfg.Twitter.Complete())
	assert.Equal(t, "k", cfg.Twitter.APIKey)
	assert.False(t, cfg.DryRun)
}

func TestFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TWITTER_API_SECRET", "")
	t.Setenv("TWITTER_ACCESS_TOKEN", "")
	t.Setenv("TWITTER_ACCESS_TOKEN_SECRET", "")
	t.Setenv("DRY_RUN", "")

	cfg := FromEnv()
	assert.False(t, cfg.Twitter.Complete())
	assert.True(t, cfg.DryRun)
	assert.NoError(t, cfg.Validate(), "missing credentials are not a validation error")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gainerbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quote: USDC
top_count: 50
scan_delay: 200ms
chart_path: /tmp/out.png
`), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "USDC", cfg.Quote)
	assert.Equal(t, 50, cfg.TopCount)
	assert.Equal(t, "/tmp/out.png", cfg.ChartPath)
	// Untouched knobs keep their defaults.
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, 5, cfg.MaxRetries)

	d, err := cfg.ParseScanDelay()
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, d)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing quote", func(c *Config) { c.Quote = "" }, "quote is required"},
		{"zero top count", func(c *Config) { c.TopCount = 0 }, "top_count must be positive"},
		{"missing interval", func(c *Config) { c.Interval = "" }, "interval is required"},
		{"candle count too small", func(c *Config) { c.CandleCount = 1 }, "candle_count must be at least 2"},
		{"bad scan delay", func(c *Config) { c.ScanDelay = "fast" }, "bad scan_delay"},
		{"negative scan delay", func(c *Config) { c.ScanDelay = "-1s" }, "must not be negative"},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }, "max_retries must be positive"},
		{"missing chart path", func(c *Config) { c.ChartPath = "" }, "chart_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
