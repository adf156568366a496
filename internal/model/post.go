// Package model defines the shared data types for the enrichment pipeline.
package model

// Post is a social-media post as consumed from the feed. Only the fields the
// enrichment pipeline reads are modeled; everything else rides along in Raw.
type Post struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	CreatedAt string         `json:"created_at,omitempty"`
	Lang      string         `json:"lang,omitempty"`
	Geo       *Geo           `json:"geo,omitempty"`
	Place     *Place         `json:"place,omitempty"`
	User      *User          `json:"user,omitempty"`
	Raw       map[string]any `json:"raw_data,omitempty"`

	// Enrichment output, populated by the pipeline.
	Location  *EnrichedLocation `json:"location,omitempty"`
	Sentiment *Sentiment        `json:"sentiment,omitempty"`
	Hashtags  []string          `json:"hashtags,omitempty"`
	Mentions  []string          `json:"mentions,omitempty"`
}

// Geo holds explicit point coordinates attached to a post, [lat, lon].
type Geo struct {
	Coordinates []float64 `json:"coordinates"`
}

// Place is a structured place tag attached to a post.
type Place struct {
	FullName string `json:"full_name"`
}

// User is the author profile attached to a post.
type User struct {
	ID          string `json:"id,omitempty"`
	ScreenName  string `json:"screen_name,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// GeocodeResult is a geocoded location as stored in the location cache.
// Input is always the exact string used as the cache key. Address, Latitude
// and Longitude are all present or the result does not exist; partial results
// are never cached.
type GeocodeResult struct {
	Input     string         `json:"input"`
	Address   string         `json:"address"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Raw       map[string]any `json:"raw,omitempty"`
}

// EnrichedLocation is the location block attached to a post after enrichment.
// RawLocation is empty when no signal was found anywhere on the post.
type EnrichedLocation struct {
	RawLocation string         `json:"raw_location,omitempty"`
	Geocoded    *GeocodeResult `json:"geocoded,omitempty"`
}

// Sentiment is the scorer output attached to a post: the four fixed-lexicon
// scores plus the discrete label.
type Sentiment struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

// AddressParts is the decomposition of a geocoded display-name into
// components for downstream persistence. Fields degrade front-to-back when
// the display-name has fewer components than expected.
type AddressParts struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}
