package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/vector"
)

type recordingEmbedder struct {
	calls   int
	batches [][]string
	err     error
}

func (r *recordingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	r.calls++
	r.batches = append(r.batches, texts)
	if r.err != nil {
		return nil, r.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 2, 3, 4}
	}
	return vectors, nil
}

func (r *recordingEmbedder) Name() string { return "recording" }

type recordingIndex struct {
	ensureCalls int
	ensureDim   int
	upserts     [][]vector.Point
	failAtBatch int // 1-based batch number to fail on, 0 disables
}

func (r *recordingIndex) EnsureCollection(ctx context.Context, dim int) error {
	r.ensureCalls++
	r.ensureDim = dim
	return nil
}

func (r *recordingIndex) Upsert(ctx context.Context, points []vector.Point) error {
	if r.failAtBatch > 0 && len(r.upserts)+1 == r.failAtBatch {
		return fmt.Errorf("%w: simulated batch failure", vector.ErrWrite)
	}
	batch := make([]vector.Point, len(points))
	copy(batch, points)
	r.upserts = append(r.upserts, batch)
	return nil
}

func (r *recordingIndex) Search(ctx context.Context, vec []float32, k int) ([]vector.Hit, error) {
	return nil, nil
}

func feedServer(t *testing.T, items int) *httptest.Server {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test Feed</title>`)
	for i := 0; i < items; i++ {
		fmt.Fprintf(&sb, `<item><title>Story %d</title><link>https://news.example/%d</link><description>Cricket update number %d from the test feed.</description></item>`, i, i, i)
	}
	sb.WriteString(`</channel></rss>`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sb.String()))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunWithNothingCollectedMakesNoBackendCalls(t *testing.T) {
	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Feeds: nil, Seeds: nil}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, embedder.calls)
	assert.Zero(t, index.ensureCalls)
	assert.Empty(t, index.upserts)
}

func TestRunFailingFeedIsSkippedNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Feeds: []string{srv.URL}}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, embedder.calls)
}

func TestRunSeedsIndexedEvenWithoutFeeds(t *testing.T) {
	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Seeds: DefaultSeeds}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultSeeds), count)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 4, index.ensureDim)
	require.Len(t, index.upserts, 1)

	var cricketSource string
	for _, p := range index.upserts[0] {
		require.NotEmpty(t, p.ID)
		if strings.Contains(p.Payload.Text, "India defeats Australia") {
			cricketSource = p.Payload.Source
		}
	}
	assert.Equal(t, "https://example.com/sports/cricket", cricketSource)
}

func TestRunCollectsAndChunksFeedItems(t *testing.T) {
	srv := feedServer(t, 3)
	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Feeds: []string{srv.URL}}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, index.upserts, 1)
	first := index.upserts[0][0]
	assert.Equal(t, "Story 0", first.Payload.Title)
	assert.Equal(t, "https://news.example/0", first.Payload.Source)
	assert.Contains(t, first.Payload.Text, "Cricket update number 0")
}

func TestRunHonorsPerFeedItemCap(t *testing.T) {
	srv := feedServer(t, 10)
	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Feeds: []string{srv.URL}, MaxItemsPerFeed: 4}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRunHonorsGlobalPassageCap(t *testing.T) {
	srv := feedServer(t, 10)
	embedder := &recordingEmbedder{}
	index := &recordingIndex{}
	orch := New(Config{Feeds: []string{srv.URL}, MaxPassages: 6}, embedder, index)

	count, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestRunBatchFailureReturnsPartialCount(t *testing.T) {
	srv := feedServer(t, 10)
	embedder := &recordingEmbedder{}
	index := &recordingIndex{failAtBatch: 2}
	orch := New(Config{Feeds: []string{srv.URL}, UpsertBatchSize: 4}, embedder, index)

	count, err := orch.Run(context.Background())
	require.ErrorIs(t, err, vector.ErrWrite)
	// One full batch of four made it before the failing batch.
	assert.Equal(t, 4, count)
	require.Len(t, index.upserts, 1)
}

func TestRunEmbeddingFailureAbortsBeforeIndexing(t *testing.T) {
	embedder := &recordingEmbedder{err: errors.New("backend down")}
	index := &recordingIndex{}
	orch := New(Config{Seeds: DefaultSeeds}, embedder, index)

	count, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, count)
	assert.Zero(t, index.ensureCalls)
}
