// Package sentiment provides a client for the external fixed-lexicon
// sentiment scorer service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Scores is the scorer output for one text: the four lexicon scores plus the
// discrete label ("negative", "neutral" or "positive").
type Scores struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

// Client defines the scorer operations used by the enrichment pipeline.
type Client interface {
	// Score scores a single text.
	Score(ctx context.Context, text string) (*Scores, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second cap for scorer calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a scorer client against baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(20, 20),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Score(ctx context.Context, text string) (*Scores, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sentiment: rate limiter")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, eris.Wrap(err, "sentiment: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "sentiment: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sentiment: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sentiment: unexpected status %d", resp.StatusCode)
	}

	var scores Scores
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, eris.Wrap(err, "sentiment: decode response")
	}
	return &scores, nil
}
