// Package qdrant provides a vector index adapter backed by the Qdrant
// REST API. It assumes cosine distance and creates the collection on
// first write.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Default configuration values.
const (
	DefaultURL        = "http://localhost:6333"
	DefaultCollection = "docchat"
	DefaultTimeout    = 15 * time.Second
)

// Config holds configuration for the Qdrant vector index.
type Config struct {
	// URL is the Qdrant REST endpoint (default: http://localhost:6333).
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (default: docchat).
	Collection string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// VectorIndex stores and searches chunk vectors in Qdrant.
type VectorIndex struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string

	mu      sync.Mutex
	created bool
}

// New creates a new Qdrant vector index.
func New(cfg Config) *VectorIndex {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &VectorIndex{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}
}

// Add upserts the points, creating the collection on first use with
// the dimensionality of the first vector.
func (v *VectorIndex) Add(ctx context.Context, points []driven.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	if err := v.ensureCollection(ctx, len(points[0].Vector)); err != nil {
		return err
	}

	wirePoints := make([]map[string]any, len(points))
	for i, p := range points {
		wirePoints[i] = map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"source_id": p.Chunk.SourceID,
				"title":     p.Chunk.Title,
				"text":      p.Chunk.Text,
				"position":  p.Chunk.Position,
			},
		}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", v.url, v.collection)
	if err := v.do(ctx, http.MethodPut, url, map[string]any{"points": wirePoints}, nil); err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Search returns the k nearest chunks by cosine similarity.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", v.url, v.collection)
	if err := v.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrVectorIndexUnavailable, err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.RetrievedChunk{Score: r.Score}
		if s, ok := r.Payload["source_id"].(string); ok {
			chunk.SourceID = s
		}
		if s, ok := r.Payload["title"].(string); ok {
			chunk.Title = s
		}
		if s, ok := r.Payload["text"].(string); ok {
			chunk.Text = s
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// DeleteBySource removes every point whose payload carries the given
// source_id.
func (v *VectorIndex) DeleteBySource(ctx context.Context, sourceID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "source_id", "match": map[string]any{"value": sourceID}},
			},
		},
	}

	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", v.url, v.collection)
	if err := v.do(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("%w: delete by source: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// DeleteAll drops the collection. The next Add recreates it.
func (v *VectorIndex) DeleteAll(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", v.url, v.collection)
	if err := v.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("%w: drop collection: %v", domain.ErrVectorIndexUnavailable, err)
	}

	v.mu.Lock()
	v.created = false
	v.mu.Unlock()
	return nil
}

// Ping validates the Qdrant endpoint is reachable.
func (v *VectorIndex) Ping(ctx context.Context) error {
	if err := v.do(ctx, http.MethodGet, v.url+"/collections", nil, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// ensureCollection creates the collection if this index has not done
// so yet. Qdrant answers 200 when it already exists with the same
// schema.
func (v *VectorIndex) ensureCollection(ctx context.Context, dimension int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.created {
		return nil
	}
	if dimension <= 0 {
		return fmt.Errorf("%w: invalid vector dimension %d", domain.ErrInvalidInput, dimension)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", v.url, v.collection)
	if err := v.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("%w: create collection: %v", domain.ErrVectorIndexUnavailable, err)
	}

	v.created = true
	return nil
}

// do sends one JSON request and decodes the response into out when
// non-nil.
func (v *VectorIndex) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v.apiKey != "" {
		req.Header.Set("api-key", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s: %s: %s", method, url, resp.Status, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
