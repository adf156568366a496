package model

import "time"

// RunStatus tracks the lifecycle of a processing run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one batch pass of the enrichment pipeline.
type Run struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Status     RunStatus  `json:"status"`
	Stats      RunStats   `json:"stats"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunStats summarizes a batch run.
type RunStats struct {
	Posts    int `json:"posts"`
	Located  int `json:"located"`
	Geocoded int `json:"geocoded"`
	Scored   int `json:"scored"`
}
