package location

import (
	"strconv"
	"strings"

	"github.com/fansense/fansense-cli/internal/model"
	"github.com/fansense/fansense-cli/internal/textclean"
)

// Extractor derives a single raw location candidate from a post by trying
// signals in strict priority order:
//
//  1. explicit geo coordinates on the post
//  2. a structured place tag
//  3. the author profile location field
//  4. a mention mined from the author profile description
//  5. a mention mined from the post body
//
// The first signal that yields a non-empty, non-ignored candidate wins.
type Extractor struct {
	gaz *Gazetteer
}

// NewExtractor creates an Extractor. A nil gazetteer selects the embedded one.
func NewExtractor(gaz *Gazetteer) *Extractor {
	if gaz == nil {
		gaz = DefaultGazetteer
	}
	return &Extractor{gaz: gaz}
}

// FromPost returns the best location candidate for a post, or "" when every
// signal is exhausted. A missing candidate is not an error.
func (e *Extractor) FromPost(post *model.Post) string {
	if post == nil {
		return ""
	}

	// Explicit coordinates bypass the gazetteer and ignore-list checks.
	if post.Geo != nil && len(post.Geo.Coordinates) >= 2 {
		return formatCoordinates(post.Geo.Coordinates[0], post.Geo.Coordinates[1])
	}

	if post.Place != nil && post.Place.FullName != "" {
		return post.Place.FullName
	}

	if candidate := e.fromProfile(post.User); candidate != "" {
		return candidate
	}

	// URLs, mentions and retweet prefixes carry tokens that look like place
	// names, so the body is cleaned before mining.
	return FirstLocation(e.gaz, textclean.ForLocation(post.Text))
}

// fromProfile checks the profile location field, then mines the description.
func (e *Extractor) fromProfile(user *model.User) string {
	if user == nil {
		return ""
	}

	if loc := strings.TrimSpace(user.Location); loc != "" && !e.gaz.Ignored(loc) {
		return loc
	}

	return FirstLocation(e.gaz, textclean.ForLocation(user.Description))
}

// formatCoordinates renders a [lat, lon] pair as "lat,lon" with minimal
// float formatting, matching the cache keys produced for coordinate posts.
func formatCoordinates(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
