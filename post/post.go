// Package post defines the posting capability the bot publishes through.
package post

import "context"

// Result is the structured outcome of one posting attempt sequence. Terminal
// outcomes are values rather than errors so callers can log and exit cleanly.
type Result struct {
	OK          bool
	StatusCode  int
	Body        map[string]any
	RateHeaders map[string]string
	Err         string
}

// Poster publishes a text update with an optional image. An empty imagePath
// means text-only.
type Poster interface {
	Post(ctx context.Context, text, imagePath string) Result
}
