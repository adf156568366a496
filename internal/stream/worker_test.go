package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fansense/fansense-cli/internal/model"
)

// fakeFetcher feeds a fixed message sequence then reports cancellation.
type fakeFetcher struct {
	msgs      []kafka.Message
	next      int
	committed []kafka.Message
	closed    bool
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if f.next >= len(f.msgs) {
		return kafka.Message{}, context.Canceled
	}
	m := f.msgs[f.next]
	f.next++
	return m, nil
}

func (f *fakeFetcher) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

type fakePublisher struct {
	written []kafka.Message
	closed  bool
}

func (p *fakePublisher) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.written = append(p.written, msgs...)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

// stampEnricher marks each post with a fixed location so output can be
// distinguished from input.
type stampEnricher struct {
	seen int
}

func (e *stampEnricher) Enrich(ctx context.Context, post *model.Post) *model.Post {
	e.seen++
	post.Location = &model.EnrichedLocation{RawLocation: "London"}
	return post
}

func postMessage(t *testing.T, post model.Post) kafka.Message {
	t.Helper()
	data, err := json.Marshal(post)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(post.ID), Value: data}
}

func TestWorker_EnrichesAndPublishes(t *testing.T) {
	reader := &fakeFetcher{msgs: []kafka.Message{
		postMessage(t, model.Post{ID: "p1", Text: "match day in London"}),
		postMessage(t, model.Post{ID: "p2", Text: "great away win"}),
	}}
	writer := &fakePublisher{}
	enricher := &stampEnricher{}

	w := NewWorker(reader, writer, enricher)
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, writer.written, 2)
	assert.Equal(t, []byte("p1"), writer.written[0].Key)

	var out model.Post
	require.NoError(t, json.Unmarshal(writer.written[0].Value, &out))
	require.NotNil(t, out.Location)
	assert.Equal(t, "London", out.Location.RawLocation)

	assert.Equal(t, 2, enricher.seen)
	assert.Len(t, reader.committed, 2)
}

func TestWorker_SkipsMalformedMessages(t *testing.T) {
	reader := &fakeFetcher{msgs: []kafka.Message{
		{Value: []byte("not json")},
		postMessage(t, model.Post{ID: "p1", Text: "hello from Madrid"}),
	}}
	writer := &fakePublisher{}
	enricher := &stampEnricher{}

	w := NewWorker(reader, writer, enricher)
	require.NoError(t, w.Run(context.Background()))

	// Bad message produced nothing but was still committed.
	assert.Len(t, writer.written, 1)
	assert.Len(t, reader.committed, 2)
	assert.Equal(t, 1, enricher.seen)
}

func TestWorker_SkipsEmptyPosts(t *testing.T) {
	reader := &fakeFetcher{msgs: []kafka.Message{
		postMessage(t, model.Post{}),
	}}
	writer := &fakePublisher{}

	w := NewWorker(reader, writer, &stampEnricher{})
	require.NoError(t, w.Run(context.Background()))

	assert.Empty(t, writer.written)
	assert.Len(t, reader.committed, 1)
}

// flakyFetcher errs a fixed number of times before reporting cancellation.
type flakyFetcher struct {
	fakeFetcher
	failures int
	fetches  int
}

func (f *flakyFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.fetches++
	if f.fetches <= f.failures {
		return kafka.Message{}, errors.New("broker unavailable")
	}
	return f.fakeFetcher.FetchMessage(ctx)
}

func TestWorker_FetchErrorsPacedBeforeRetry(t *testing.T) {
	reader := &flakyFetcher{failures: 2}
	w := NewWorker(reader, &fakePublisher{}, &stampEnricher{})
	w.retryDelay = time.Millisecond

	start := time.Now()
	require.NoError(t, w.Run(context.Background()))

	// Both failures waited out the delay before the loop came around.
	assert.Equal(t, 3, reader.fetches)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestWorker_FetchErrorRespectsCancellation(t *testing.T) {
	reader := &flakyFetcher{failures: 1}
	w := NewWorker(reader, &fakePublisher{}, &stampEnricher{})
	w.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop on cancellation")
	}
}

func TestWorker_Stats(t *testing.T) {
	reader := &fakeFetcher{msgs: []kafka.Message{
		postMessage(t, model.Post{ID: "p1", Text: "in London"}),
		postMessage(t, model.Post{ID: "p2", Text: "in Paris"}),
	}}
	w := NewWorker(reader, &fakePublisher{}, &stampEnricher{})
	require.NoError(t, w.Run(context.Background()))

	stats := w.Stats()
	assert.Equal(t, 2, stats.Posts)
	assert.Equal(t, 2, stats.Located)
	assert.Equal(t, 0, stats.Geocoded)
	assert.Equal(t, 0, stats.Scored)
}

func TestWorker_Close(t *testing.T) {
	reader := &fakeFetcher{}
	writer := &fakePublisher{}

	w := NewWorker(reader, writer, &stampEnricher{})
	require.NoError(t, w.Close())
	assert.True(t, reader.closed)
	assert.True(t, writer.closed)
}

func TestSerializeToMessage(t *testing.T) {
	post := &model.Post{
		ID:   "p9",
		Text: "derby day",
		Location: &model.EnrichedLocation{
			RawLocation: "Manchester",
		},
	}

	msg, err := serializeToMessage(post)
	require.NoError(t, err)

	assert.Equal(t, []byte("p9"), msg.Key)
	assert.Contains(t, string(msg.Value), `"raw_location":"Manchester"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "processed_at", msg.Headers[0].Key)
	assert.Equal(t, "raw_location", msg.Headers[1].Key)
	assert.Equal(t, []byte("Manchester"), msg.Headers[1].Value)
}
