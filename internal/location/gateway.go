package location

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/model"
	"github.com/fansense/fansense-cli/pkg/nominatim"
)

// seedVariants are the preposition-prefixed cache keys written alongside a
// manually seeded location, so text-mined candidates like "in London" hit
// the cache without a service call.
var seedVariants = []string{"in", "from", "at", "near", "to"}

// Gateway resolves a raw location string to a GeocodeResult through the
// external geocoding service, honoring its usage policy: exact-match cache
// short-circuit, gazetteer query simplification, a minimum wall-clock
// interval between outbound queries, and a per-token fallback cascade.
// Service failures degrade to "no result"; nothing here is fatal.
type Gateway struct {
	client nominatim.Client
	cache  *Cache
	gaz    *Gazetteer
	pacer  *pacer

	flushEvery int
	mu         sync.Mutex // guards successes
	successes  int
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithGazetteer overrides the embedded gazetteer.
func WithGazetteer(gaz *Gazetteer) GatewayOption {
	return func(g *Gateway) {
		g.gaz = gaz
	}
}

// WithMinInterval sets the minimum wall-clock interval between outbound
// service queries. The default is one second, per the Nominatim policy.
func WithMinInterval(interval time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.pacer.interval = interval
	}
}

// WithClock injects the pacer's time source so tests run on a fake clock.
func WithClock(clock clockwork.Clock) GatewayOption {
	return func(g *Gateway) {
		g.pacer.clock = clock
	}
}

// WithFlushEvery sets how many successful external queries elapse between
// automatic cache flushes.
func WithFlushEvery(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.flushEvery = n
		}
	}
}

// NewGateway creates a Gateway over the given service client and cache.
func NewGateway(client nominatim.Client, cache *Cache, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client: client,
		cache:  cache,
		gaz:    DefaultGazetteer,
		pacer: &pacer{
			clock:    clockwork.NewRealClock(),
			interval: time.Second,
		},
		flushEvery: 10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve maps a location string to a GeocodeResult, or nil when the string
// is empty, the service has no match, or every attempt failed.
func (g *Gateway) Resolve(ctx context.Context, input string) *model.GeocodeResult {
	if input == "" {
		return nil
	}

	if cached, ok := g.cache.Get(input); ok {
		return &cached
	}

	// Prefer a known gazetteer term over messy free text: an input that is
	// itself an entry goes out verbatim, otherwise the first entry the input
	// contains becomes the query.
	query := input
	if !g.gaz.Contains(input) {
		if entry, ok := g.gaz.FindIn(input); ok {
			query = entry
		}
	}

	if result := g.query(ctx, input, query); result != nil {
		return result
	}

	// Fallback cascade: retry once per whitespace token that is a gazetteer
	// entry, in token order, stopping at the first success.
	tokens := strings.Fields(input)
	if len(tokens) < 2 {
		return nil
	}
	for _, token := range tokens {
		if !g.gaz.Contains(token) {
			continue
		}
		if result := g.query(ctx, input, token); result != nil {
			return result
		}
	}
	return nil
}

// query performs one rate-limited service call for term, caching any success
// under the original input string. Errors are logged and swallowed.
func (g *Gateway) query(ctx context.Context, input, term string) *model.GeocodeResult {
	g.pacer.wait(ctx)

	loc, err := g.client.Geocode(ctx, term)
	if err != nil {
		zap.L().Warn("location: geocode attempt failed",
			zap.String("input", input),
			zap.String("query", term),
			zap.Error(err),
		)
		return nil
	}
	if loc == nil {
		return nil
	}

	result := model.GeocodeResult{
		Input:     input,
		Address:   loc.Address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Raw:       loc.Raw,
	}
	g.cache.Put(input, result)
	g.countSuccess()
	return &result
}

// countSuccess bumps the external-query counter and flushes the cache every
// flushEvery successes.
func (g *Gateway) countSuccess() {
	g.mu.Lock()
	g.successes++
	due := g.successes%g.flushEvery == 0
	g.mu.Unlock()

	if due {
		_ = g.cache.Flush()
	}
}

// Seed inserts a known-good location into the cache directly, bypassing the
// service, along with preposition-prefixed variants of the input string. The
// cache is flushed immediately.
func (g *Gateway) Seed(input string, lat, lon float64, city, country string) model.GeocodeResult {
	address := city
	if country != "" {
		if address != "" {
			address += ", "
		}
		address += country
	}

	result := model.GeocodeResult{
		Input:     input,
		Address:   address,
		Latitude:  lat,
		Longitude: lon,
		Raw: map[string]any{
			"place_id":     "manual_" + strings.ReplaceAll(input, " ", "_"),
			"display_name": address,
			"address": map[string]any{
				"city":    city,
				"country": country,
			},
		},
	}

	g.cache.Put(input, result)
	for _, prep := range seedVariants {
		g.cache.Put(prep+" "+input, result)
	}
	_ = g.cache.Flush()

	zap.L().Info("location: seeded known location",
		zap.String("input", input),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)
	return result
}

// Cache exposes the gateway's cache for batch-boundary flushes and stats.
func (g *Gateway) Cache() *Cache { return g.cache }

// pacer enforces a minimum interval between calls. It owns its own state so
// multiple Gateway instances never interfere, and is mutex-guarded so a
// parallel caller cannot slip under the interval.
type pacer struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

// wait blocks until the interval since the previous call has elapsed, then
// records the new call time. The sleep runs to completion; the context is
// only consulted before sleeping.
func (p *pacer) wait(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if !p.last.IsZero() {
		if elapsed := p.clock.Since(p.last); elapsed < p.interval {
			p.clock.Sleep(p.interval - elapsed)
		}
	}
	p.last = p.clock.Now()
}
