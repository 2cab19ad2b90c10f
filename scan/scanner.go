package scan

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tokennotifs/gainerbot/binance"
	"github.com/tokennotifs/gainerbot/market"
)

// MarketData is the slice of the exchange API the scanner needs.
type MarketData interface {
	TopTickers(ctx context.Context, quote string, limit int) ([]binance.Ticker, error)
	Candles(ctx context.Context, symbol string, interval binance.Interval, limit int) ([]market.Candle, error)
}

// Candidate is a symbol whose most recent closed candle moved up.
type Candidate struct {
	Symbol     string // base asset, e.g. "BTC"
	FullSymbol string // trading pair, e.g. "BTCUSDT"
	Gain       market.GainInfo
	Candles    []market.Candle
}

// QuoteAsset returns the denominating asset of the pair.
func (c Candidate) QuoteAsset() string {
	return strings.TrimPrefix(c.FullSymbol, c.Symbol)
}

// Options tune a Scanner. Zero values fall back to defaults.
type Options struct {
	Quote       string           // quote asset filter (default "USDT")
	TopCount    int              // snapshot truncation (default 100)
	Interval    binance.Interval // candle width (default 1h)
	CandleCount int              // klines fetched per symbol (default 24)
	Delay       time.Duration    // inter-symbol throttle (default 50ms)
}

// Scanner walks the top pairs by traded volume and ranks the positive movers
// of the last closed candle.
type Scanner struct {
	markets MarketData
	opts    Options
	log     zerolog.Logger

	sleep func(time.Duration)
}

// New creates a Scanner over the given market-data source.
func New(markets MarketData, opts Options, log zerolog.Logger) *Scanner {
	if opts.Quote == "" {
		opts.Quote = "USDT"
	}
	if opts.TopCount <= 0 {
		opts.TopCount = 100
	}
	if opts.Interval == "" {
		opts.Interval = binance.H1
	}
	if opts.CandleCount < 2 {
		opts.CandleCount = 24
	}
	if opts.Delay <= 0 {
		opts.Delay = 50 * time.Millisecond
	}
	return &Scanner{
		markets: markets,
		opts:    opts,
		log:     log,
		sleep:   time.Sleep,
	}
}

// Scan fetches the volume-ranked snapshot and returns the candidates with a
// positive change, ordered by change percent descending. The sort is stable:
// ties keep fetch order. An upstream snapshot failure is logged and yields an
// empty result; per-symbol candle failures are skipped.
func (s *Scanner) Scan(ctx context.Context) []Candidate {
	tickers, err := s.markets.TopTickers(ctx, s.opts.Quote, s.opts.TopCount)
	if err != nil {
		s.log.Error().Err(err).Msg("ticker snapshot failed")
		return nil
	}
	if len(tickers) == 0 {
		s.log.Warn().Msg("ticker snapshot is empty")
		return nil
	}
	s.log.Info().Int("symbols", len(tickers)).Str("quote", s.opts.Quote).Msg("scanning top pairs")

	var candidates []Candidate
	for i, ticker := range tickers {
		if i > 0 {
			if i%25 == 0 {
				s.log.Info().Int("done", i).Int("total", len(tickers)).Msg("scan progress")
			}
			s.sleep(s.opts.Delay)
		}

		candles, err := s.markets.Candles(ctx, ticker.Symbol, s.opts.Interval, s.opts.CandleCount)
		if err != nil {
			s.log.Debug().Err(err).Str("symbol", ticker.Symbol).Msg("candle fetch failed, skipping")
			continue
		}

		gain, ok := market.HourlyChange(candles)
		if !ok || gain.ChangePercent <= 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			Symbol:     strings.TrimSuffix(ticker.Symbol, s.opts.Quote),
			FullSymbol: ticker.Symbol,
			Gain:       gain,
			Candles:    candles,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Gain.ChangePercent > candidates[j].Gain.ChangePercent
	})

	s.log.Info().Int("candidates", len(candidates)).Msg("scan complete")
	return candidates
}

// Winner returns the top candidate, or nil when nothing moved up.
func Winner(candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// TopN returns at most n leading candidates.
func TopN(candidates []Candidate, n int) []Candidate {
	if n < 0 {
		n = 0
	}
	if len(candidates) < n {
		return candidates
	}
	return candidates[:n]
}
