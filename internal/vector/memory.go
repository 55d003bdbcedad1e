package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Memory is an in-process Store used when no Qdrant instance is
// configured and in tests. Search is exact cosine similarity.
type Memory struct {
	mu     sync.RWMutex
	dim    int
	points []Point
}

// NewMemory returns an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) EnsureCollection(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", ErrWrite, dim)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dim == 0 {
		m.dim = dim
		return nil
	}
	if m.dim != dim {
		return fmt.Errorf("%w: index has dimension %d, requested %d", ErrDimensionMismatch, m.dim, dim)
	}
	return nil
}

func (m *Memory) Upsert(ctx context.Context, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dim == 0 {
		return fmt.Errorf("%w: collection not initialized", ErrWrite)
	}
	for _, p := range points {
		if len(p.Vector) != m.dim {
			return fmt.Errorf("%w: point %s has dimension %d, index expects %d",
				ErrWrite, p.ID, len(p.Vector), m.dim)
		}
	}
	for _, p := range points {
		replaced := false
		for i := range m.points {
			if m.points[i].ID == p.ID {
				m.points[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			m.points = append(m.points, p)
		}
	}
	return nil
}

func (m *Memory) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		k = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dim != 0 && len(vector) != m.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d", ErrQuery, len(vector), m.dim)
	}
	hits := make([]Hit, 0, len(m.points))
	for _, p := range m.points {
		hits = append(hits, Hit{Payload: p.Payload, Score: cosine(vector, p.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len reports the number of stored points.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
