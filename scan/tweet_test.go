package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tokennotifs/gainerbot/market"
)

func TestChartURL(t *testing.T) {
	c := Candidate{Symbol: "DOGE", FullSymbol: "DOGEUSDT"}
	assert.Equal(t, "https://www.binance.com/en/trade/DOGE_USDT", ChartURL(c))
}

func TestComposeTweet(t *testing.T) {
	c := Candidate{
		Symbol:     "SOL",
		FullSymbol: "SOLUSDT",
		Gain: market.GainInfo{
			Open:          142.1,
			Close:         155.675,
			High:          156.0,
			Low:           141.9,
			ChangePercent: 9.553132,
			CloseTime:     time.Date(2024, 6, 1, 17, 59, 59, 0, time.UTC),
		},
	}

	want := "🚀 Biggest Hourly Gainer\n\n" +
		"SOL ⬆️ +9.55%\n" +
		"📊 Chart: https://www.binance.com/en/trade/SOL_USDT\n\n" +
		"💰 $142.1000 → $155.6750\n" +
		"📈 High: $156.0000\n" +
		"⏰ 17:59 UTC\n\n" +
		"$SOL #Crypto #Binance"

	got := ComposeTweet(c)
	assert.Equal(t, want, got)

	// Deterministic for the same candidate.
	assert.Equal(t, got, ComposeTweet(c))
}
