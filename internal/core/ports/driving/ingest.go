package driving

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// Rebuild drops the existing vector collection before writing.
	Rebuild bool

	// Replace removes each document's existing vectors before writing
	// its new ones, so a re-indexed document does not accumulate
	// duplicates.
	Replace bool
}

// IngestService builds the vector index from the document corpus.
type IngestService interface {
	// IngestDataset reads the configured dataset file and indexes its
	// records. A failure on one document does not abort the run.
	IngestDataset(ctx context.Context, opts IngestOptions) (*domain.IngestReport, error)

	// IngestDocuments indexes an already-loaded set of documents.
	IngestDocuments(ctx context.Context, docs []domain.SourceDocument, opts IngestOptions) (*domain.IngestReport, error)

	// RemoveSource deletes all vectors belonging to one source.
	RemoveSource(ctx context.Context, sourceID string) error
}
