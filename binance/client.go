package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tokennotifs/gainerbot/market"
)

// DefaultBaseURL is the public Binance spot REST API. Both endpoints used
// here are read-only and unauthenticated.
const DefaultBaseURL = "https://api.binance.com"

// Interval represents the kline bucket width.
type Interval string

const (
	M1  Interval = "1m"  // 1 minute
	M5  Interval = "5m"  // 5 minutes
	M15 Interval = "15m" // 15 minutes
	M30 Interval = "30m" // 30 minutes
	H1  Interval = "1h"  // 1 hour
	H4  Interval = "4h"  // 4 hours
	D1  Interval = "1d"  // 1 day
)

// Client represents a Binance spot market-data API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Binance market-data client
func NewClient() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ticker is one entry of the 24hr statistics snapshot.
type Ticker struct {
	Symbol      string
	LastPrice   float64
	QuoteVolume float64
}

// apiTicker represents a single ticker in the API response
type apiTicker struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	QuoteVolume string `json:"quoteVolume"`
}

// TopTickers fetches 24hr statistics for all symbols, keeps the pairs quoted
// in quote, and returns at most limit of them ordered by traded quote volume
// descending.
func (c *Client) TopTickers(ctx context.Context, quote string, limit int) ([]Ticker, error) {
	if quote == "" {
		return nil, fmt.Errorf("quote asset is required")
	}

	apiURL := c.baseURL + "/api/v3/ticker/24hr"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var raw []apiTicker
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	tickers := make([]Ticker, 0, len(raw))
	for _, t := range raw {
		if !strings.HasSuffix(t.Symbol, quote) {
			continue
		}
		qv, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil {
			// Symbols with unparsable volume cannot be ranked.
			continue
		}
		lp, _ := strconv.ParseFloat(t.LastPrice, 64)
		tickers = append(tickers, Ticker{
			Symbol:      t.Symbol,
			LastPrice:   lp,
			QuoteVolume: qv,
		})
	}

	sort.SliceStable(tickers, func(i, j int) bool {
		return tickers[i].QuoteVolume > tickers[j].QuoteVolume
	})
	if limit > 0 && len(tickers) > limit {
		tickers = tickers[:limit]
	}

	return tickers, nil
}

// Candles fetches up to limit klines for symbol at the given interval,
// ordered by open time ascending.
func (c *Client) Candles(ctx context.Context, symbol string, interval Interval, limit int) ([]market.Candle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if interval == "" {
		interval = H1
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", string(interval))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	apiURL := fmt.Sprintf("%s/api/v3/klines?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	// A kline row is a mixed-type JSON array:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var rows [][]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candles := make([]market.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("parse kline %d: %w", i, err)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func parseKline(row []any) (market.Candle, error) {
	if len(row) < 7 {
		return market.Candle{}, fmt.Errorf("row has %d fields, want at least 7", len(row))
	}

	openMS, ok := row[0].(float64)
	if !ok {
		return market.Candle{}, fmt.Errorf("open time is not a number")
	}
	closeMS, ok := row[6].(float64)
	if !ok {
		return market.Candle{}, fmt.Errorf("close time is not a number")
	}

	open, err := parsePrice(row[1], "open")
	if err != nil {
		return market.Candle{}, err
	}
	high, err := parsePrice(row[2], "high")
	if err != nil {
		return market.Candle{}, err
	}
	low, err := parsePrice(row[3], "low")
	if err != nil {
		return market.Candle{}, err
	}
	close, err := parsePrice(row[4], "close")
	if err != nil {
		return market.Candle{}, err
	}
	volume, err := parsePrice(row[5], "volume")
	if err != nil {
		return market.Candle{}, err
	}

	return market.Candle{
		OpenTime:  time.UnixMilli(int64(openMS)).UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		CloseTime: time.UnixMilli(int64(closeMS)).UTC(),
	}, nil
}

// parsePrice parses one string-typed numeric field of a kline row
func parsePrice(v any, name string) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%s is not a string", name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return f, nil
}
