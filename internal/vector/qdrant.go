package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"newschat/internal/common"
)

// QdrantConfig contains connection details for a Qdrant instance.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Qdrant is a minimal REST client to Qdrant using cosine distance.
type Qdrant struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// NewQdrant builds a client; it does not touch the network until the
// first call.
func NewQdrant(cfg QdrantConfig) *Qdrant {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "news_passages"
	}
	return &Qdrant{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Collection returns the collection name this client operates on.
func (q *Qdrant) Collection() string {
	return q.collection
}

func (q *Qdrant) EnsureCollection(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", ErrWrite, dim)
	}
	logger := common.Logger()
	existing, found, err := q.collectionDimension(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if found {
		if existing != dim {
			return fmt.Errorf("%w: collection %q has dimension %d, requested %d",
				ErrDimensionMismatch, q.collection, existing, dim)
		}
		return nil
	}
	logger.Info("vector: creating collection", "collection", q.collection, "dimension", dim)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	if err := q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", q.collection), body, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (q *Qdrant) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", q.collection)
	if err := q.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (q *Qdrant) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		k = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32 `json:"score"`
			Payload Payload `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", q.collection)
	if err := q.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	hits := make([]Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, Hit{Payload: r.Payload, Score: r.Score})
	}
	return hits, nil
}

// collectionDimension reports the vector size of the collection, or
// found=false when it does not exist yet.
func (q *Qdrant) collectionDimension(ctx context.Context) (int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url+fmt.Sprintf("/collections/%s", q.collection), nil)
	if err != nil {
		return 0, false, err
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode >= 300 {
		return 0, false, fmt.Errorf("qdrant GET collection: %s", resp.Status)
	}
	var out struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, false, fmt.Errorf("decode collection info: %w", err)
	}
	return out.Result.Config.Params.Vectors.Size, true, nil
}

func (q *Qdrant) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, q.url+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: %s", method, path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (q *Qdrant) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}
