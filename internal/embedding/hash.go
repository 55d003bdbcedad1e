package embedding

import (
	"context"
	"math"
)

const defaultHashDimension = 768

// HashEmbedder is a deterministic offline embedder. The same text
// always maps to the same vector, which is enough for similarity
// search to behave consistently in development and tests without an
// API key.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a hash embedder with the given
// dimensionality, defaulting to 768.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = defaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		vectors[i] = hashVector(text, e.dim)
	}
	return vectors, nil
}

func (e *HashEmbedder) Name() string {
	return "hash"
}

func hashVector(text string, dim int) []float32 {
	var hash int32
	for _, r := range text {
		hash = hash*31 + r
	}
	vec := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed := float64(hash) + float64(i)
		vec[i] = float32((math.Sin(seed) + math.Cos(seed*0.7)) * 0.5)
	}
	return vec
}
