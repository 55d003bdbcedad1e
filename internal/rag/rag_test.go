package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/llm"
	"newschat/internal/vector"
)

type fakeEmbedder struct {
	batches [][]string
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

type fakeIndex struct {
	hits []vector.Hit
	err  error
	k    int
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, dim int) error { return nil }

func (f *fakeIndex) Upsert(ctx context.Context, points []vector.Point) error { return nil }

func (f *fakeIndex) Search(ctx context.Context, vec []float32, k int) ([]vector.Hit, error) {
	f.k = k
	return f.hits, f.err
}

type fakeProvider struct {
	prompt string
	answer string
	err    error
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func TestAnswerAssemblesContextInHitOrder(t *testing.T) {
	// Scores deliberately not monotonic: the index order is trusted,
	// never re-sorted.
	index := &fakeIndex{hits: []vector.Hit{
		{Payload: vector.Payload{Text: "first passage", Source: "https://a"}, Score: 0.9},
		{Payload: vector.Payload{Text: "second passage", Source: "https://b"}, Score: 0.5},
		{Payload: vector.Payload{Text: "third passage", Source: "https://c"}, Score: 0.8},
	}}
	provider := &fakeProvider{answer: "grounded answer"}
	svc := NewService(&fakeEmbedder{}, index, provider, 5)

	answer, err := svc.Answer(context.Background(), "what happened?")
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", answer.Text)
	assert.Equal(t, []string{"https://a", "https://b", "https://c"}, answer.Sources)

	firstIdx := strings.Index(provider.prompt, "first passage")
	secondIdx := strings.Index(provider.prompt, "second passage")
	thirdIdx := strings.Index(provider.prompt, "third passage")
	require.NotEqual(t, -1, firstIdx)
	assert.Less(t, firstIdx, secondIdx)
	assert.Less(t, secondIdx, thirdIdx)
	assert.Contains(t, provider.prompt, "SOURCE: https://a\nfirst passage")
	assert.Contains(t, provider.prompt, "User Question: what happened?")
}

func TestAnswerEmbedsQueryAsSingletonBatch(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := NewService(embedder, &fakeIndex{}, &fakeProvider{answer: "ok"}, 5)
	_, err := svc.Answer(context.Background(), "query text")
	require.NoError(t, err)
	require.Len(t, embedder.batches, 1)
	assert.Equal(t, []string{"query text"}, embedder.batches[0])
}

func TestAnswerMissingSourceBecomesUnknown(t *testing.T) {
	index := &fakeIndex{hits: []vector.Hit{
		{Payload: vector.Payload{Text: "orphan passage"}, Score: 0.7},
	}}
	provider := &fakeProvider{answer: "ok"}
	svc := NewService(&fakeEmbedder{}, index, provider, 5)

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Contains(t, provider.prompt, "SOURCE: unknown\norphan passage")
	assert.Equal(t, []string{""}, answer.Sources)
}

func TestAnswerDuplicateSourcesPreserved(t *testing.T) {
	index := &fakeIndex{hits: []vector.Hit{
		{Payload: vector.Payload{Text: "a", Source: "https://same"}, Score: 0.9},
		{Payload: vector.Payload{Text: "b", Source: "https://same"}, Score: 0.8},
	}}
	svc := NewService(&fakeEmbedder{}, index, &fakeProvider{answer: "ok"}, 5)
	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://same", "https://same"}, answer.Sources)
}

func TestAnswerCompletionFailureSurfaced(t *testing.T) {
	completionErr := &llm.CompletionError{Provider: "gemini", Err: errors.New("quota")}
	svc := NewService(&fakeEmbedder{}, &fakeIndex{}, &fakeProvider{err: completionErr}, 5)
	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	var got *llm.CompletionError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "gemini", got.Provider)
}

func TestAnswerIndexFailureSurfaced(t *testing.T) {
	index := &fakeIndex{err: vector.ErrQuery}
	svc := NewService(&fakeEmbedder{}, index, &fakeProvider{}, 5)
	_, err := svc.Answer(context.Background(), "q")
	require.ErrorIs(t, err, vector.ErrQuery)
}

func TestAnswerUsesConfiguredK(t *testing.T) {
	index := &fakeIndex{}
	svc := NewService(&fakeEmbedder{}, index, &fakeProvider{answer: "ok"}, 7)
	_, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 7, index.k)
}
