package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fansense/fansense-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "run-1",
			Source:    "fixtures/posts.json",
			Status:    model.RunStatusComplete,
			Stats:     model.RunStats{Posts: 40, Located: 22, Geocoded: 18, Scored: 40},
			StartedAt: started,
		},
		{
			ID:        "run-2",
			Source:    "stream:posts.raw",
			Status:    model.RunStatusRunning,
			StartedAt: started.Add(time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "fixtures/posts.json")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "22")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "running")
}
