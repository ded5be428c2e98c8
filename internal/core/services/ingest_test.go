package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlara-labs/docchat-cli/internal/chunker"
	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

func newTestSplitter(t *testing.T) *chunker.Splitter {
	t.Helper()
	s, err := chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10))
	require.NoError(t, err)
	return s
}

func TestIngestDocuments(t *testing.T) {
	embedding := &mockEmbedding{vector: []float32{0.1, 0.2}}
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), embedding, vectors, "")

	docs := []domain.SourceDocument{
		{SourceID: "a.txt", Text: strings.Repeat("alpha ", 30)},
		{SourceID: "b.txt", Text: "short"},
	}

	report, err := svc.IngestDocuments(context.Background(), docs, driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Ingested)
	assert.Equal(t, len(vectors.added), report.VectorsWritten)
	assert.GreaterOrEqual(t, report.VectorsWritten, 2)
	assert.Empty(t, report.Failures)
	assert.False(t, vectors.deletedAll)

	for _, p := range vectors.added {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, []float32{0.1, 0.2}, p.Vector)
		assert.NotEmpty(t, p.Chunk.Text)
	}
}

func TestIngestDocuments_Rebuild(t *testing.T) {
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, vectors, "")

	_, err := svc.IngestDocuments(context.Background(),
		[]domain.SourceDocument{{SourceID: "a.txt", Text: "hello"}},
		driving.IngestOptions{Rebuild: true})
	require.NoError(t, err)
	assert.True(t, vectors.deletedAll)
}

func TestIngestDocuments_ReplaceDropsStaleVectors(t *testing.T) {
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, vectors, "")

	doc := domain.SourceDocument{SourceID: "a.txt", Text: "hello"}

	_, err := svc.IngestDocuments(context.Background(), []domain.SourceDocument{doc}, driving.IngestOptions{})
	require.NoError(t, err)
	report, err := svc.IngestDocuments(context.Background(), []domain.SourceDocument{doc}, driving.IngestOptions{Replace: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, vectors.deletedSources)
	assert.Equal(t, report.VectorsWritten, len(vectors.added))
}

func TestRemoveSource(t *testing.T) {
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, vectors, "")

	_, err := svc.IngestDocuments(context.Background(),
		[]domain.SourceDocument{{SourceID: "a.txt", Text: "hello"}},
		driving.IngestOptions{})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveSource(context.Background(), "a.txt"))
	assert.Empty(t, vectors.added)

	err = svc.RemoveSource(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestDocuments_RebuildDropFailureIsFatal(t *testing.T) {
	vectors := &mockVectorIndex{deleteErr: errors.New("collection locked")}
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, vectors, "")

	_, err := svc.IngestDocuments(context.Background(),
		[]domain.SourceDocument{{SourceID: "a.txt", Text: "hello"}},
		driving.IngestOptions{Rebuild: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropping existing collection")
}

func TestIngestDocuments_SkipsEmpty(t *testing.T) {
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, vectors, "")

	report, err := svc.IngestDocuments(context.Background(), []domain.SourceDocument{
		{SourceID: "empty.txt", Text: ""},
		{SourceID: "full.txt", Text: "something"},
	}, driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Ingested)
}

func TestIngestDocuments_FailureIsolation(t *testing.T) {
	embedding := &mockEmbedding{vector: []float32{0.1}}
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), embedding, vectors, "")

	// First document fails to embed, the second succeeds.
	embedding.batchErr = errors.New("rate limited")
	report, err := svc.IngestDocuments(context.Background(), []domain.SourceDocument{
		{SourceID: "bad.txt", Text: "will fail"},
	}, driving.IngestOptions{})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad.txt", report.Failures[0].SourceID)
	assert.Contains(t, report.Failures[0].Reason, "rate limited")
	assert.Equal(t, 0, report.Ingested)

	embedding.batchErr = nil
	report, err = svc.IngestDocuments(context.Background(), []domain.SourceDocument{
		{SourceID: "bad.txt", Text: "will fail"},
		{SourceID: "good.txt", Text: "will succeed"},
	}, driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested)
	assert.Empty(t, report.Failures)
}

func TestIngestDocuments_Batching(t *testing.T) {
	embedding := &mockEmbedding{vector: []float32{0.1}}
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), embedding, vectors, "",
		WithEmbedBatchSize(2))

	// 50-char window with 10 overlap over 200 chars gives 5 chunks,
	// so batches of 2, 2, and 1.
	doc := domain.SourceDocument{SourceID: "long.txt", Text: strings.Repeat("x", 200)}
	report, err := svc.IngestDocuments(context.Background(), []domain.SourceDocument{doc}, driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 5, report.VectorsWritten)
	assert.Equal(t, []int{2, 2, 1}, embedding.batchSizes)
}

func TestIngestDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"url": "https://example.com/a", "raw_text": "alpha   text\nwith lines"},
		{"url": "https://example.com/b", "raw_text": ""}
	]`), 0o644))

	embedding := &mockEmbedding{vector: []float32{0.1}}
	vectors := &mockVectorIndex{}
	svc := NewIngestService(newTestSplitter(t), embedding, vectors, path)

	report, err := svc.IngestDataset(context.Background(), driving.IngestOptions{})
	require.NoError(t, err)

	// The record without text never makes it out of the parser.
	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Ingested)
	require.NotEmpty(t, vectors.added)
	assert.Equal(t, "alpha text with lines", vectors.added[0].Chunk.Text)
}

func TestIngestDataset_MissingFile(t *testing.T) {
	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{}, &mockVectorIndex{}, "/nope/data.txt")

	_, err := svc.IngestDataset(context.Background(), driving.IngestOptions{})
	assert.Error(t, err)
}

func TestIngestDocuments_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewIngestService(newTestSplitter(t), &mockEmbedding{vector: []float32{0.1}}, &mockVectorIndex{}, "")
	_, err := svc.IngestDocuments(ctx, []domain.SourceDocument{{SourceID: "a", Text: "x"}}, driving.IngestOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
