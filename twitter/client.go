package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/tokennotifs/gainerbot/post"
)

const (
	// DefaultUploadURL is the v1.1 media upload endpoint.
	DefaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	// DefaultTweetURL is the v2 tweet creation endpoint.
	DefaultTweetURL = "https://api.twitter.com/2/tweets"

	maxRateLimitBackoff = time.Hour
	maxTransportBackoff = 60 * time.Second
)

// Credentials holds the four OAuth1 values the Twitter API requires.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four values are present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Client posts tweets with optional media, backing off under rate limiting.
// It implements post.Poster.
type Client struct {
	creds      Credentials
	uploadURL  string
	tweetURL   string
	maxRetries int
	httpClient *http.Client
	log        zerolog.Logger

	sleep func(time.Duration)
	now   func() time.Time
}

// Option mutates client construction.
type Option func(*Client)

// WithUploadURL overrides the media upload endpoint.
func WithUploadURL(u string) Option { return func(c *Client) { c.uploadURL = u } }

// WithTweetURL overrides the tweet creation endpoint.
func WithTweetURL(u string) Option { return func(c *Client) { c.tweetURL = u } }

// WithMaxRetries sets the attempt cap for the tweet submission.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithHTTPClient replaces the OAuth1-signing client, bypassing request
// signing entirely.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// NewClient creates a posting client for the given credentials.
func NewClient(creds Credentials, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		uploadURL:  DefaultUploadURL,
		tweetURL:   DefaultTweetURL,
		maxRetries: 5,
		log:        log,
		sleep:      time.Sleep,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil && creds.Complete() {
		cfg := oauth1.NewConfig(creds.APIKey, creds.APISecret)
		token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
		c.httpClient = cfg.Client(oauth1.NoContext, token)
		c.httpClient.Timeout = 30 * time.Second
	}
	return c
}

// Post uploads the image when one is given and present on disk, then submits
// the tweet. 429 responses and transport failures are retried with backoff up
// to the attempt cap; every other failure is terminal. Missing credentials
// short-circuit before any network call.
func (c *Client) Post(ctx context.Context, text, imagePath string) post.Result {
	if !c.creds.Complete() {
		return post.Result{Err: "missing Twitter credentials in environment"}
	}

	var mediaID string
	if imagePath != "" {
		if _, err := os.Stat(imagePath); err == nil {
			failure, id := c.uploadMedia(ctx, imagePath)
			if failure != nil {
				return *failure
			}
			mediaID = id
		}
	}

	payload := map[string]any{"text": text}
	if mediaID != "" {
		payload["media"] = map[string]any{"media_ids": []string{mediaID}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return post.Result{Err: fmt.Sprintf("encode tweet payload: %v", err)}
	}

	attempt := 0
	for {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tweetURL, bytes.NewReader(body))
		if err != nil {
			return post.Result{Err: fmt.Sprintf("create tweet request: %v", err)}
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt >= c.maxRetries {
				return post.Result{Err: fmt.Sprintf("tweet request failed: %v", err)}
			}
			backoff := transportBackoff(attempt)
			c.log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("tweet request error, retrying")
			c.sleep(backoff)
			continue
		}

		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		rate := rateHeaders(resp.Header)

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			return post.Result{
				OK:          true,
				StatusCode:  resp.StatusCode,
				Body:        parseBody(raw),
				RateHeaders: rate,
			}

		case http.StatusTooManyRequests:
			if attempt >= c.maxRetries {
				return post.Result{
					StatusCode:  resp.StatusCode,
					Body:        parseBody(raw),
					RateHeaders: rate,
					Err:         "rate limited, retries exhausted",
				}
			}
			backoff := c.rateLimitBackoff(resp.Header, attempt)
			c.log.Warn().Int("attempt", attempt).Dur("backoff", backoff).Msg("rate limited, backing off")
			c.sleep(backoff)

		default:
			return post.Result{
				StatusCode:  resp.StatusCode,
				Body:        parseBody(raw),
				RateHeaders: rate,
				Err:         fmt.Sprintf("tweet rejected with status %d", resp.StatusCode),
			}
		}
	}
}

// uploadMedia performs the single-attempt v1.1 media upload. It returns a
// terminal failure result, or the media identifier on success.
func (c *Client) uploadMedia(ctx context.Context, path string) (*post.Result, string) {
	f, err := os.Open(path)
	if err != nil {
		return &post.Result{Err: fmt.Sprintf("open image: %v", err)}, ""
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", filepath.Base(path))
	if err == nil {
		_, err = io.Copy(part, f)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return &post.Result{Err: fmt.Sprintf("encode image upload: %v", err)}, ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return &post.Result{Err: fmt.Sprintf("create upload request: %v", err)}, ""
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &post.Result{Err: fmt.Sprintf("image upload failed: %v", err)}, ""
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	rate := rateHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		return &post.Result{
			StatusCode:  resp.StatusCode,
			Body:        parseBody(raw),
			RateHeaders: rate,
			Err:         fmt.Sprintf("image upload rejected with status %d", resp.StatusCode),
		}, ""
	}

	var parsed struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.MediaIDString == "" {
		return &post.Result{
			StatusCode: resp.StatusCode,
			Body:       parseBody(raw),
			Err:        "upload response missing media_id_string",
		}, ""
	}
	return nil, parsed.MediaIDString
}

// rateLimitBackoff picks the 429 wait: the Retry-After header in seconds,
// else the delta to the advertised reset timestamp clamped at zero, else
// exponential capped at an hour.
func (c *Client) rateLimitBackoff(h http.Header, attempt int) time.Duration {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	if v := strings.TrimSpace(h.Get("x-rate-limit-reset")); v != "" {
		if reset, err := strconv.ParseInt(v, 10, 64); err == nil {
			delta := reset - c.now().Unix()
			if delta < 0 {
				delta = 0
			}
			return time.Duration(delta) * time.Second
		}
	}
	backoff := time.Duration(60<<(attempt-1)) * time.Second
	if backoff > maxRateLimitBackoff {
		backoff = maxRateLimitBackoff
	}
	return backoff
}

func transportBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<attempt) * time.Second
	if backoff > maxTransportBackoff {
		backoff = maxTransportBackoff
	}
	return backoff
}

// rateHeaders snapshots the rate-limit related response headers.
func rateHeaders(h http.Header) map[string]string {
	out := make(map[string]string)
	for k, vs := range h {
		lk := strings.ToLower(k)
		if (strings.Contains(lk, "rate") || lk == "retry-after") && len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// parseBody decodes a JSON response body, falling back to the raw text when
// the body is not a JSON object.
func parseBody(raw []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return map[string]any{"text": string(raw)}
	}
	return body
}
