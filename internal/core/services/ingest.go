package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/atlara-labs/docchat-cli/internal/chunker"
	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbedBatchSize is how many chunks are embedded per request.
const DefaultEmbedBatchSize = 32

// IngestService turns documents into embedded chunks in the vector
// index.
type IngestService struct {
	splitter    *chunker.Splitter
	embedding   driven.EmbeddingService
	vectors     driven.VectorIndex
	datasetPath string
	batchSize   int
	limiter     *rate.Limiter
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedBatchSize sets how many chunks are embedded per request.
func WithEmbedBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithEmbedRateLimit caps embedding requests per second. Zero means
// no limit.
func WithEmbedRateLimit(rps float64) IngestOption {
	return func(s *IngestService) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewIngestService creates an ingest service reading from the dataset
// file at datasetPath.
func NewIngestService(
	splitter *chunker.Splitter,
	embedding driven.EmbeddingService,
	vectors driven.VectorIndex,
	datasetPath string,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		splitter:    splitter,
		embedding:   embedding,
		vectors:     vectors,
		datasetPath: datasetPath,
		batchSize:   DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestDataset reads the configured dataset file and indexes its
// records.
func (s *IngestService) IngestDataset(ctx context.Context, opts driving.IngestOptions) (*domain.IngestReport, error) {
	records, err := loaders.ParseDatasetFile(s.datasetPath)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.SourceDocument, 0, len(records))
	for _, rec := range records {
		docs = append(docs, domain.SourceDocument{
			SourceID: rec.Source,
			Title:    rec.Title,
			Text:     loaders.NormalizeWhitespace(rec.RawText),
		})
	}
	return s.IngestDocuments(ctx, docs, opts)
}

// IngestDocuments indexes the given documents. One document's failure
// is recorded in the report and does not abort the others.
func (s *IngestService) IngestDocuments(ctx context.Context, docs []domain.SourceDocument, opts driving.IngestOptions) (*domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Info("Ingesting %d documents (rebuild=%t)", len(docs), opts.Rebuild)

	if opts.Rebuild {
		if err := s.vectors.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("dropping existing collection: %w", err)
		}
		logger.Info("Dropped existing collection")
	}

	report := &domain.IngestReport{Attempted: len(docs)}

	for _, doc := range docs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if doc.Text == "" {
			logger.Info("Skipping %s: no text", doc.SourceID)
			report.Skipped++
			continue
		}

		if opts.Replace {
			if err := s.vectors.DeleteBySource(ctx, doc.SourceID); err != nil {
				logger.Error("dropping stale vectors of %s failed: %v", doc.SourceID, err)
				report.Failures = append(report.Failures, domain.IngestFailure{
					SourceID: doc.SourceID,
					Reason:   fmt.Sprintf("dropping stale vectors: %v", err),
				})
				continue
			}
		}

		written, err := s.ingestOne(ctx, doc)
		if err != nil {
			logger.Error("ingest of %s failed: %v", doc.SourceID, err)
			report.Failures = append(report.Failures, domain.IngestFailure{
				SourceID: doc.SourceID,
				Reason:   err.Error(),
			})
			continue
		}

		report.Ingested++
		report.VectorsWritten += written
	}

	logger.Info("Ingestion done: %d ingested, %d vectors, %d skipped, %d failed",
		report.Ingested, report.VectorsWritten, report.Skipped, len(report.Failures))

	return report, nil
}

// RemoveSource deletes all vectors belonging to one source.
func (s *IngestService) RemoveSource(ctx context.Context, sourceID string) error {
	if sourceID == "" {
		return fmt.Errorf("%w: source id is empty", domain.ErrInvalidInput)
	}
	if err := s.vectors.DeleteBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("removing vectors of %s: %w", sourceID, err)
	}
	logger.Info("Removed vectors of %s", sourceID)
	return nil
}

// ingestOne chunks, embeds, and writes a single document.
func (s *IngestService) ingestOne(ctx context.Context, doc domain.SourceDocument) (int, error) {
	chunks := s.splitter.Split(doc)
	if len(chunks) == 0 {
		return 0, nil
	}
	logger.Debug("%s: %d chunks", doc.SourceID, len(chunks))

	written := 0
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return written, err
			}
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("embedding chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return written, fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		points := make([]driven.VectorPoint, len(batch))
		for i, c := range batch {
			points[i] = driven.VectorPoint{
				ID:     c.ID,
				Vector: vectors[i],
				Chunk:  c,
			}
		}

		if err := s.vectors.Add(ctx, points); err != nil {
			return written, fmt.Errorf("writing vectors: %w", err)
		}
		written += len(points)
	}

	return written, nil
}
