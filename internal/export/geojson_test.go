package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/fansense/fansense-cli/internal/model"
)

func geocodedPost(id, text, raw, address string, lat, lon float64) *model.Post {
	return &model.Post{
		ID:   id,
		Text: text,
		Location: &model.EnrichedLocation{
			RawLocation: raw,
			Geocoded: &model.GeocodeResult{
				Input:     raw,
				Address:   address,
				Latitude:  lat,
				Longitude: lon,
			},
		},
	}
}

func TestGeoJSON_BuildsFeatures(t *testing.T) {
	posts := []*model.Post{
		geocodedPost("p1", "kickoff in London", "London", "London, Greater London, England, United Kingdom", 51.5074, -0.1278),
	}
	posts[0].Sentiment = &model.Sentiment{Compound: 0.6, Label: "positive"}
	posts[0].Hashtags = []string{"GoTeam"}

	fc := GeoJSON(posts)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "p1", f.ID)

	pt, ok := f.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{-0.1278, 51.5074}, pt.FlatCoords())

	assert.Equal(t, "London", f.Properties["raw_location"])
	assert.Equal(t, "England", f.Properties["state"])
	assert.Equal(t, "United Kingdom", f.Properties["country"])
	assert.Equal(t, "positive", f.Properties["sentiment"])
	assert.Equal(t, []string{"GoTeam"}, f.Properties["hashtags"])
}

func TestGeoJSON_SkipsUnresolvedPosts(t *testing.T) {
	posts := []*model.Post{
		nil,
		{ID: "p1", Text: "no location"},
		{ID: "p2", Text: "raw only", Location: &model.EnrichedLocation{RawLocation: "somewhere"}},
		geocodedPost("p3", "located", "Paris", "Paris, Île-de-France, France", 48.8566, 2.3522),
	}

	fc := GeoJSON(posts)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "p3", fc.Features[0].ID)
}

func TestGeoJSON_EmptyInputYieldsEmptyCollection(t *testing.T) {
	fc := GeoJSON(nil)
	require.NotNil(t, fc)
	assert.Empty(t, fc.Features)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.geojson")
	posts := []*model.Post{
		geocodedPost("p1", "match day", "Madrid", "Madrid, Comunidad de Madrid, Spain", 40.4168, -3.7038),
	}

	require.NoError(t, WriteFile(path, posts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])

	features, ok := doc["features"].([]any)
	require.True(t, ok)
	assert.Len(t, features, 1)
}
