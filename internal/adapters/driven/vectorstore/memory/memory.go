// Package memory provides an in-memory vector index with exact cosine
// similarity search. Nothing is persisted; it exists for tests and
// small local corpora.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex holds vectors in memory, keyed by point ID.
type VectorIndex struct {
	mu     sync.RWMutex
	points map[string]driven.VectorPoint
}

// New creates an empty in-memory vector index.
func New() *VectorIndex {
	return &VectorIndex{points: make(map[string]driven.VectorPoint)}
}

// Add upserts the points.
func (v *VectorIndex) Add(_ context.Context, points []driven.VectorPoint) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range points {
		v.points[p.ID] = p
	}
	return nil
}

// Search returns the k points with the highest cosine similarity.
func (v *VectorIndex) Search(_ context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	type scored struct {
		chunk domain.Chunk
		score float64
	}
	results := make([]scored, 0, len(v.points))
	for _, p := range v.points {
		results = append(results, scored{chunk: p.Chunk, score: cosine(vector, p.Vector)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunk.ID < results[j].chunk.ID
	})
	if k < len(results) {
		results = results[:k]
	}

	chunks := make([]domain.RetrievedChunk, len(results))
	for i, r := range results {
		chunks[i] = domain.RetrievedChunk{
			SourceID: r.chunk.SourceID,
			Title:    r.chunk.Title,
			Text:     r.chunk.Text,
			Score:    r.score,
		}
	}
	return chunks, nil
}

// DeleteBySource discards every point from the given source.
func (v *VectorIndex) DeleteBySource(_ context.Context, sourceID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, p := range v.points {
		if p.Chunk.SourceID == sourceID {
			delete(v.points, id)
		}
	}
	return nil
}

// DeleteAll discards every point.
func (v *VectorIndex) DeleteAll(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.points = make(map[string]driven.VectorPoint)
	return nil
}

// Len reports how many points are stored.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.points)
}

// Ping always succeeds.
func (v *VectorIndex) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// cosine computes the cosine similarity of two vectors. Mismatched
// lengths or zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
