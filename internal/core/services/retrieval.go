package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the number of chunks returned when the caller does
// not ask for a specific count.
const DefaultTopK = 2

// RetrievalService embeds queries and searches the vector index.
type RetrievalService struct {
	embedding driven.EmbeddingService
	vectors   driven.VectorIndex
	topK      int
}

// NewRetrievalService creates a retrieval service. A topK of 0 uses
// DefaultTopK.
func NewRetrievalService(embedding driven.EmbeddingService, vectors driven.VectorIndex, topK int) *RetrievalService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalService{
		embedding: embedding,
		vectors:   vectors,
		topK:      topK,
	}
}

// Retrieve embeds the query and returns the k nearest chunks.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.topK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	vector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := s.vectors.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching vector index: %w", err)
	}

	logger.Debug("Retrieved %d chunks", len(chunks))
	return chunks, nil
}

// RetrieveSerialized formats the retrieved chunks as a context block.
// Each chunk is rendered with its source so the model can cite it.
func (s *RetrievalService) RetrieveSerialized(ctx context.Context, query string, k int) (string, error) {
	chunks, err := s.Retrieve(ctx, query, k)
	if err != nil {
		return "", err
	}
	return SerializeChunks(chunks), nil
}

// SerializeChunks renders chunks into the source/content block the
// agent prompt expects.
func SerializeChunks(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString("Source: ")
		b.WriteString(c.SourceID)
		b.WriteString("\nContent: ")
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
