// Package bot wires one full pass of the pipeline: scan, render, compose,
// post.
package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tokennotifs/gainerbot/market"
	"github.com/tokennotifs/gainerbot/post"
	"github.com/tokennotifs/gainerbot/scan"
)

// ChartRenderer draws the winner's recent candles to an image file.
type ChartRenderer interface {
	Render(candles []market.Candle, title, outPath string) error
}

// Runner executes one run. Every downstream failure is a logged outcome, not
// an error: a run that finds nothing or fails to post still finishes cleanly.
type Runner struct {
	Scanner   *scan.Scanner
	Renderer  ChartRenderer
	Poster    post.Poster // nil means no poster is configured
	DryRun    bool
	ChartPath string
	Log       zerolog.Logger
}

// Outcome reports what a run did.
type Outcome struct {
	Winner     *scan.Candidate
	Candidates []scan.Candidate
	Tweet      string
	ChartPath  string // empty when no chart was written
	Posted     bool
	PostResult *post.Result
}

// Run performs one sequential pass. An empty market snapshot produces no
// chart and no post; a chart failure degrades to a text-only post.
func (r *Runner) Run(ctx context.Context) Outcome {
	var out Outcome

	out.Candidates = r.Scanner.Scan(ctx)
	out.Winner = scan.Winner(out.Candidates)
	if out.Winner == nil {
		r.Log.Info().Msg("no positive hourly movers, nothing to post")
		return out
	}

	winner := *out.Winner
	r.Log.Info().
		Str("symbol", winner.Symbol).
		Float64("change_percent", winner.Gain.ChangePercent).
		Msg("winner selected")

	if r.Renderer != nil && r.ChartPath != "" {
		title := winner.Symbol + "/" + winner.QuoteAsset()
		if err := r.Renderer.Render(winner.Candles, title, r.ChartPath); err != nil {
			r.Log.Error().Err(err).Msg("chart rendering failed, continuing text-only")
		} else {
			out.ChartPath = r.ChartPath
			r.Log.Info().Str("path", r.ChartPath).Msg("chart created")
		}
	}

	out.Tweet = scan.ComposeTweet(winner)

	if r.DryRun {
		r.Log.Info().Str("tweet", out.Tweet).Msg("dry run active, skipping post")
		return out
	}

	if r.Poster == nil {
		out.PostResult = &post.Result{Err: "no poster configured"}
		r.Log.Error().Msg("no poster configured, cannot post")
		return out
	}

	res := r.Poster.Post(ctx, out.Tweet, out.ChartPath)
	out.PostResult = &res
	if res.OK {
		out.Posted = true
		r.Log.Info().
			Int("status", res.StatusCode).
			Interface("rate", res.RateHeaders).
			Msg("posted")
	} else {
		r.Log.Error().
			Int("status", res.StatusCode).
			Str("error", res.Err).
			Interface("rate", res.RateHeaders).
			Interface("body", res.Body).
			Msg("post failed")
	}
	return out
}
