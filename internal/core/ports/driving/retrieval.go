package driving

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// RetrievalService finds corpus passages relevant to a query.
type RetrievalService interface {
	// Retrieve embeds the query and returns the k nearest chunks.
	// A k of 0 uses the configured default.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)

	// RetrieveSerialized formats the retrieved chunks as a single
	// context block suitable for feeding to the model.
	RetrieveSerialized(ctx context.Context, query string, k int) (string, error)
}
