// Package store persists processing-run records behind a driver-agnostic
// interface with sqlite and postgres backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/fansense/fansense-cli/internal/config"
	"github.com/fansense/fansense-cli/internal/model"
)

// Store defines the persistence interface for processing runs.
type Store interface {
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, stats model.RunStats) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
