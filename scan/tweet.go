package scan

import "fmt"

const hashtags = "#Crypto #Binance"

// ChartURL returns the Binance spot trading page for the candidate's pair.
func ChartURL(c Candidate) string {
	return fmt.Sprintf("https://www.binance.com/en/trade/%s_%s", c.Symbol, c.QuoteAsset())
}

// ComposeTweet renders the fixed summary template for a winning candidate.
// The output is deterministic for the same candidate.
func ComposeTweet(c Candidate) string {
	return fmt.Sprintf(
		"🚀 Biggest Hourly Gainer\n\n"+
			"%s ⬆️ +%.2f%%\n"+
			"📊 Chart: %s\n\n"+
			"💰 $%.4f → $%.4f\n"+
			"📈 High: $%.4f\n"+
			"⏰ %s UTC\n\n"+
			"$%s %s",
		c.Symbol, c.Gain.ChangePercent, ChartURL(c),
		c.Gain.Open, c.Gain.Close,
		c.Gain.High,
		c.Gain.CloseTime.UTC().Format("15:04"),
		c.Symbol, hashtags,
	)
}
