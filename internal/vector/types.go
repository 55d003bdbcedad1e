package vector

import (
	"context"
	"errors"
)

var (
	// ErrDimensionMismatch reports an EnsureCollection call whose
	// dimension conflicts with an existing collection.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrWrite is the root of index write failures.
	ErrWrite = errors.New("index write failed")
	// ErrQuery is the root of index query failures.
	ErrQuery = errors.New("index query failed")
)

// Payload is the metadata stored alongside each vector.
type Payload struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Title  string `json:"title"`
}

// Point is one indexed passage: its id, embedding, and payload. All
// points in a collection share the dimensionality fixed by the first
// EnsureCollection call.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// Hit is a search result, ephemeral to a single query.
type Hit struct {
	Payload Payload
	Score   float32
}

// Store is the similarity index the ingestion and query paths depend on.
type Store interface {
	// EnsureCollection makes the collection exist with the given
	// dimensionality. Calling it again with the same dimension is a
	// no-op; a differing dimension fails with ErrDimensionMismatch.
	EnsureCollection(ctx context.Context, dim int) error
	Upsert(ctx context.Context, points []Point) error
	// Search returns up to k hits ordered by descending similarity.
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
}
