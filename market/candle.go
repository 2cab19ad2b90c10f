package market

import "time"

// Candle represents one fixed-width OHLCV bucket of trade data.
type Candle struct {
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	CloseTime time.Time
}

// Green reports whether the candle closed at or above its open.
func (c Candle) Green() bool { return c.Close >= c.Open }

// GainInfo describes the move of the most recent fully closed candle.
type GainInfo struct {
	Open          float64
	Close         float64
	High          float64
	Low           float64
	ChangePercent float64
	CloseTime     time.Time
}

// HourlyChange derives GainInfo from the second-to-last candle, the most
// recent fully closed bar (the final element may still be accumulating).
// Returns false when there are fewer than two candles or the reference open
// price is zero.
func HourlyChange(candles []Candle) (GainInfo, bool) {
	if len(candles) < 2 {
		return GainInfo{}, false
	}
	ref := candles[len(candles)-2]
	if ref.Open == 0 {
		return GainInfo{}, false
	}
	return GainInfo{
		Open:          ref.Open,
		Close:         ref.Close,
		High:          ref.High,
		Low:           ref.Low,
		ChangePercent: (ref.Close - ref.Open) / ref.Open * 100,
		CloseTime:     ref.CloseTime,
	}, true
}
