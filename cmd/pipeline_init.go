package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/location"
	"github.com/fansense/fansense-cli/internal/pipeline"
	"github.com/fansense/fansense-cli/internal/store"
	"github.com/fansense/fansense-cli/pkg/nominatim"
	"github.com/fansense/fansense-cli/pkg/sentiment"
)

// pipelineEnv holds the initialized store, cache gateway and enricher shared
// by the process/stream/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Gateway  *location.Gateway
	Enricher *pipeline.Enricher
}

// Close flushes the location cache and releases the store.
func (pe *pipelineEnv) Close() {
	if pe.Gateway != nil {
		_ = pe.Gateway.Cache().Flush()
	}
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens and migrates the run-tracking database.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initGateway builds the location resolution gateway from config.
func initGateway() *location.Gateway {
	geocoder := nominatim.NewClient(cfg.Nominatim.UserAgent,
		nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
	)
	cache := location.NewCache(location.NewFileStorage(cfg.Cache.Path))

	return location.NewGateway(geocoder, cache,
		location.WithMinInterval(time.Duration(cfg.Nominatim.MinIntervalSec*float64(time.Second))),
		location.WithFlushEvery(cfg.Cache.FlushEvery),
	)
}

// initPipeline sets up the store, clients and enricher. Callers should defer
// env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	gateway := initGateway()

	var scorer sentiment.Client
	if cfg.Sentiment.BaseURL != "" {
		scorer = sentiment.NewClient(cfg.Sentiment.BaseURL,
			sentiment.WithRateLimit(cfg.Sentiment.RPS),
		)
	} else {
		zap.L().Warn("sentiment service not configured, posts will not be scored")
	}

	enricher := pipeline.New(location.NewExtractor(nil), gateway, scorer)

	return &pipelineEnv{
		Store:    st,
		Gateway:  gateway,
		Enricher: enricher,
	}, nil
}
