// Package nominatim provides a client for the Nominatim geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Sentinel errors callers can test with errors.Is. The gateway treats all
// three as a failed attempt, not a pipeline failure.
var (
	ErrTimeout     = errors.New("nominatim: request timed out")
	ErrUnavailable = errors.New("nominatim: service unavailable")
	ErrService     = errors.New("nominatim: service error")
)

// Location is a single geocoding match.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
	Raw       map[string]any
}

// Client defines the geocoding operations used by the location gateway.
type Client interface {
	// Geocode resolves a free-text query to its best match, or nil when the
	// service has no match for it.
	Geocode(ctx context.Context, query string) (*Location, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing or a self-hosted instance).
func WithBaseURL(baseURL string) Option {
	return func(c *httpClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a Nominatim client. The user agent identifies the
// application per the Nominatim usage policy.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResult is the wire shape of a Nominatim /search entry. Coordinates
// arrive as strings.
type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *httpClient) Geocode(ctx context.Context, query string) (*Location, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, eris.Wrapf(ErrTimeout, "query %q: %v", query, err)
		}
		return nil, eris.Wrapf(ErrUnavailable, "query %q: %v", query, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, eris.Wrapf(ErrUnavailable, "query %q: status %d", query, resp.StatusCode)
	default:
		return nil, eris.Wrapf(ErrService, "query %q: status %d", query, resp.StatusCode)
	}

	var results []searchResult
	var raw []map[string]any
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrapf(ErrService, "query %q: decode response: %v", query, err)
	}
	if len(raw) == 0 {
		return nil, nil // no match
	}

	// Re-decode the first entry into the typed shape, keeping the raw map.
	first, err := json.Marshal(raw[0])
	if err != nil {
		return nil, eris.Wrapf(ErrService, "query %q: remarshal result: %v", query, err)
	}
	results = make([]searchResult, 1)
	if err := json.Unmarshal(first, &results[0]); err != nil {
		return nil, eris.Wrapf(ErrService, "query %q: decode result: %v", query, err)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(ErrService, "query %q: bad latitude %q", query, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(ErrService, "query %q: bad longitude %q", query, results[0].Lon)
	}

	return &Location{
		Address:   results[0].DisplayName,
		Latitude:  lat,
		Longitude: lon,
		Raw:       raw[0],
	}, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
