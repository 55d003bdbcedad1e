package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"newschat/internal/common"
)

// OpenAIEmbedder produces embeddings through the OpenAI API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder builds an embedder for the given API key and model.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{client: openai.NewClient(apiKey), model: model}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	logger := common.Logger()
	logger.Debug("embedding: requesting batch", "model", e.model, "texts", len(texts))
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		logger.Error("embedding: request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbed, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbed, len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(vectors) {
			return nil, fmt.Errorf("%w: vector index %d out of range", ErrEmbed, idx)
		}
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		vectors[idx] = vec
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) Name() string {
	return "openai-" + e.model
}
