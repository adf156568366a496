// Package export renders enriched posts as GeoJSON for mapping tools.
package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/location"
	"github.com/fansense/fansense-cli/internal/model"
)

// GeoJSON builds a FeatureCollection from posts that carry geocoded
// coordinates. Posts without a resolved location are skipped.
func GeoJSON(posts []*model.Post) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	for _, post := range posts {
		if post == nil || post.Location == nil || post.Location.Geocoded == nil {
			continue
		}
		geocoded := post.Location.Geocoded

		pt := geom.NewPointFlat(geom.XY, []float64{geocoded.Longitude, geocoded.Latitude}).SetSRID(4326)

		props := map[string]any{
			"post_id":      post.ID,
			"text":         post.Text,
			"raw_location": post.Location.RawLocation,
			"address":      geocoded.Address,
		}

		parts := location.DecomposeAddress(geocoded.Address)
		if parts.City != "" {
			props["city"] = parts.City
		}
		if parts.State != "" {
			props["state"] = parts.State
		}
		if parts.Country != "" {
			props["country"] = parts.Country
		}

		if post.Sentiment != nil {
			props["sentiment"] = post.Sentiment.Label
			props["compound"] = post.Sentiment.Compound
		}
		if len(post.Hashtags) > 0 {
			props["hashtags"] = post.Hashtags
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         post.ID,
			Geometry:   pt,
			Properties: props,
		})
	}

	return fc
}

// WriteFile renders posts to a GeoJSON file.
func WriteFile(path string, posts []*model.Post) error {
	fc := GeoJSON(posts)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: encode feature collection")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}

	zap.L().Info("export: wrote GeoJSON",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
	)
	return nil
}
