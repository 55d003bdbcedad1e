package embedding

import (
	"context"
	"errors"
)

// ErrEmbed is the root of all embedding backend failures. Callers
// branch on it with errors.Is.
var ErrEmbed = errors.New("embedding failed")

// Embedder turns a batch of texts into vectors. Implementations must
// return one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}
