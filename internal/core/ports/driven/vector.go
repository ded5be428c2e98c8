package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// VectorPoint is one (vector, chunk) tuple written to the index.
// The chunk's SourceID and Title travel with it as retrievable payload.
type VectorPoint struct {
	// ID is the point id, assigned fresh at ingestion time.
	ID string

	// Vector is the embedding.
	Vector []float32

	// Chunk carries the text and provenance metadata.
	Chunk domain.Chunk
}

// VectorIndex stores chunk vectors and answers nearest-neighbour
// queries. The index owns its points exclusively after ingestion;
// callers only append or delete everything, never mutate.
type VectorIndex interface {
	// Add writes points to the index. Points become visible to Search
	// once Add returns.
	Add(ctx context.Context, points []VectorPoint) error

	// Search returns the k nearest chunks to the query vector, ordered
	// by decreasing similarity. Tie order is arbitrary.
	Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error)

	// DeleteBySource removes every point whose chunk came from the
	// given source. Used when a document is re-indexed or removed.
	DeleteBySource(ctx context.Context, sourceID string) error

	// DeleteAll removes every point in the collection. Used by rebuild.
	DeleteAll(ctx context.Context) error

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
