// Package stream consumes raw posts from Kafka, enriches them and produces
// the results to a sink topic.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/config"
	"github.com/fansense/fansense-cli/internal/model"
)

// Fetcher is the consumer side of a Kafka reader.
type Fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is the producer side of a Kafka writer.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Enricher processes a single post. Satisfied by pipeline.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, post *model.Post) *model.Post
}

// Worker moves posts from the source topic through enrichment to the sink
// topic. Malformed messages are logged, committed and skipped so one bad
// payload cannot wedge the partition.
type Worker struct {
	reader   Fetcher
	writer   Publisher
	enricher Enricher

	// retryDelay paces fetch retries so a persistent broker error does not
	// spin the loop.
	retryDelay time.Duration

	stats model.RunStats
}

// NewWorker wires a worker from explicit reader and writer endpoints.
func NewWorker(reader Fetcher, writer Publisher, enricher Enricher) *Worker {
	return &Worker{
		reader:     reader,
		writer:     writer,
		enricher:   enricher,
		retryDelay: time.Second,
	}
}

// NewKafkaWorker builds a worker against real Kafka endpoints from config.
func NewKafkaWorker(cfg config.StreamConfig, enricher Enricher) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:       cfg.Brokers,
		Topic:         cfg.SourceTopic,
		GroupID:       cfg.GroupID,
		QueueCapacity: cfg.BatchSize,
		MinBytes:      1e3,
		MaxBytes:      10e6,
	})
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.SinkTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return NewWorker(reader, writer, enricher)
}

// Run consumes until ctx is cancelled. Cancellation is a clean shutdown,
// not an error.
func (w *Worker) Run(ctx context.Context) error {
	zap.L().Info("stream: worker started")

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				zap.L().Info("stream: worker stopping", zap.Int("posts", w.stats.Posts))
				return nil
			}
			zap.L().Error("stream: fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				zap.L().Info("stream: worker stopping", zap.Int("posts", w.stats.Posts))
				return nil
			case <-time.After(w.retryDelay):
			}
			continue
		}

		if err := w.handle(ctx, msg); err != nil {
			zap.L().Warn("stream: message skipped",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			zap.L().Error("stream: commit message", zap.Error(err))
		}
	}
}

// Close releases the Kafka endpoints.
func (w *Worker) Close() error {
	rErr := w.reader.Close()
	wErr := w.writer.Close()
	if rErr != nil {
		return eris.Wrap(rErr, "stream: close reader")
	}
	return eris.Wrap(wErr, "stream: close writer")
}

// Stats reports counts accumulated since the worker started. Call after Run
// returns.
func (w *Worker) Stats() model.RunStats {
	return w.stats
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	var post model.Post
	if err := json.Unmarshal(msg.Value, &post); err != nil {
		return eris.Wrap(err, "stream: decode post")
	}
	if post.ID == "" && post.Text == "" {
		return eris.New("stream: empty post")
	}

	w.enricher.Enrich(ctx, &post)
	w.count(&post)

	out, err := serializeToMessage(&post)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, out); err != nil {
		return eris.Wrap(err, "stream: write enriched post")
	}
	return nil
}

func (w *Worker) count(post *model.Post) {
	w.stats.Posts++
	if post.Sentiment != nil {
		w.stats.Scored++
	}
	if post.Location != nil && post.Location.RawLocation != "" {
		w.stats.Located++
	}
	if post.Location != nil && post.Location.Geocoded != nil {
		w.stats.Geocoded++
	}
}

// serializeToMessage marshals an enriched post into a Kafka message keyed by
// post ID.
func serializeToMessage(post *model.Post) (kafka.Message, error) {
	data, err := json.Marshal(post)
	if err != nil {
		return kafka.Message{}, eris.Wrap(err, "stream: encode post")
	}
	headers := []kafka.Header{
		{Key: "processed_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	}
	if post.Location != nil && post.Location.RawLocation != "" {
		headers = append(headers, kafka.Header{Key: "raw_location", Value: []byte(post.Location.RawLocation)})
	}
	return kafka.Message{
		Key:     []byte(post.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
