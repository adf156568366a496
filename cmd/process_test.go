package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fansense/fansense-cli/internal/model"
)

func TestReadPosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"p1","text":"kickoff in London"},
		{"id":"p2","text":"full time"}
	]`), 0o644))

	posts, err := readPosts(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "full time", posts[1].Text)
}

func TestReadPosts_MissingFile(t *testing.T) {
	_, err := readPosts(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestReadPosts_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := readPosts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode posts")
}

func TestWritePosts_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	posts := []*model.Post{
		{ID: "p1", Text: "hello", Hashtags: []string{"GoTeam"}},
	}

	require.NoError(t, writePosts(path, posts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*model.Post
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, posts[0].Hashtags, decoded[0].Hashtags)
}
