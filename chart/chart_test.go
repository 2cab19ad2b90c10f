package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokennotifs/gainerbot/market"
)

func sampleCandles(n int) []market.Candle {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		open := price
		close := price + float64((i%5)-2) // mix of green and red bars
		high := max(open, close) + 1.5
		low := min(open, close) - 1.5
		candles = append(candles, market.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    float64(100 + i*10),
			CloseTime: base.Add(time.Duration(i+1)*time.Hour - time.Millisecond),
		})
		price = close
	}
	return candles
}

func TestRender_WritesPNG(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "chart.png")

	r := NewRenderer()
	require.NoError(t, r.Render(sampleCandles(24), "SOL/USDT", outPath))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1400, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestRender_OverwritesExistingFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(outPath, []byte("stale"), 0o644))

	r := NewRenderer()
	require.NoError(t, r.Render(sampleCandles(6), "BTC/USDT", outPath))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err, "previous content replaced by a valid image")
}

func TestRender_TooFewCandles(t *testing.T) {
	r := NewRenderer()
	err := r.Render(sampleCandles(1), "BTC/USDT", filepath.Join(t.TempDir(), "chart.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 candles")
}

func TestRender_BadPath(t *testing.T) {
	r := NewRenderer()
	err := r.Render(sampleCandles(4), "BTC/USDT", filepath.Join(t.TempDir(), "no-such-dir", "chart.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save chart")
}
