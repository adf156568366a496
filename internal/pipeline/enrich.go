// Package pipeline composes text cleaning, sentiment scoring and location
// resolution into the post enrichment flow.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/location"
	"github.com/fansense/fansense-cli/internal/model"
	"github.com/fansense/fansense-cli/internal/textclean"
	"github.com/fansense/fansense-cli/pkg/sentiment"
)

// Enricher runs the enrichment pipeline over posts. Sentiment scoring is
// optional; location resolution always runs. Every failure degrades to "no
// data for this item" and the next post proceeds.
type Enricher struct {
	extractor *location.Extractor
	gateway   *location.Gateway
	scorer    sentiment.Client
}

// New creates an Enricher. A nil scorer disables sentiment scoring.
func New(extractor *location.Extractor, gateway *location.Gateway, scorer sentiment.Client) *Enricher {
	return &Enricher{
		extractor: extractor,
		gateway:   gateway,
		scorer:    scorer,
	}
}

// Enrich processes one post in place: hashtags, mentions, sentiment,
// location. The
// post is always returned, however much enrichment succeeded.
func (e *Enricher) Enrich(ctx context.Context, post *model.Post) *model.Post {
	if post == nil {
		return nil
	}

	post.Hashtags = textclean.Hashtags(post.Text)
	post.Mentions = textclean.Mentions(post.Text)
	e.score(ctx, post)
	e.locate(ctx, post)
	return post
}

// EnrichBatch processes posts in order and flushes the location cache once
// at the end, regardless of per-item outcomes.
func (e *Enricher) EnrichBatch(ctx context.Context, posts []*model.Post) []*model.Post {
	zap.L().Info("pipeline: enriching batch", zap.Int("posts", len(posts)))

	for _, post := range posts {
		e.Enrich(ctx, post)
	}

	_ = e.gateway.Cache().Flush()
	return posts
}

// Stats counts enrichment outcomes over a processed batch.
func Stats(posts []*model.Post) model.RunStats {
	stats := model.RunStats{Posts: len(posts)}
	for _, post := range posts {
		if post == nil || post.Location == nil {
			continue
		}
		if post.Location.RawLocation != "" {
			stats.Located++
		}
		if post.Location.Geocoded != nil {
			stats.Geocoded++
		}
		if post.Sentiment != nil {
			stats.Scored++
		}
	}
	return stats
}

// score attaches sentiment when a scorer is configured. Scorer failures are
// logged and leave the post unscored.
func (e *Enricher) score(ctx context.Context, post *model.Post) {
	if e.scorer == nil {
		return
	}

	cleaned := textclean.ForSentiment(post.Text)
	if cleaned == "" {
		return
	}

	scores, err := e.scorer.Score(ctx, cleaned)
	if err != nil {
		zap.L().Warn("pipeline: sentiment scoring failed",
			zap.String("post_id", post.ID),
			zap.Error(err),
		)
		return
	}

	post.Sentiment = &model.Sentiment{
		Negative: scores.Negative,
		Neutral:  scores.Neutral,
		Positive: scores.Positive,
		Compound: scores.Compound,
		Label:    scores.Label,
	}
}

// locate extracts a raw location candidate and geocodes it through the
// gateway, attaching the result even when both come back empty.
func (e *Enricher) locate(ctx context.Context, post *model.Post) {
	candidate := e.extractor.FromPost(post)
	enriched := &model.EnrichedLocation{RawLocation: candidate}
	if candidate != "" {
		enriched.Geocoded = e.gateway.Resolve(ctx, candidate)
	}
	post.Location = enriched
}
