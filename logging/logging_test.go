package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	log, closer, err := New("info", path)
	require.NoError(t, err)
	log.Info().Str("symbol", "BTC").Msg("first run")
	require.NoError(t, closer())

	log, closer, err = New("info", path)
	require.NoError(t, err)
	log.Info().Msg("second run")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNew_LevelFiltersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	log, closer, err := New("warn", path)
	require.NoError(t, err)
	log.Info().Msg("too quiet")
	log.Warn().Msg("loud enough")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "too quiet")
	assert.Contains(t, string(data), "loud enough")
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	log, closer, err := New("chatty", "")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_UnwritableFile(t *testing.T) {
	_, _, err := New("info", filepath.Join(t.TempDir(), "missing-dir", "bot.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
}
