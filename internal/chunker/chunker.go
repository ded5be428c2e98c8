// Package chunker provides fixed-size text chunking with overlap.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Splitter splits document text into fixed-size chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options. The overlap must be
// strictly smaller than the chunk size or the window could never
// advance.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, chunk size %d", domain.ErrOverlapTooLarge, s.overlap, s.chunkSize)
	}

	return s, nil
}

// ChunkSize returns the configured window size in characters.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split cuts the document text into windows of chunkSize characters,
// each starting (chunkSize - overlap) after the previous. Text no
// longer than one window yields a single chunk; empty text yields
// none. Chunk text is a pure function of the input; only the IDs are
// fresh per call.
func (s *Splitter) Split(doc domain.SourceDocument) []domain.Chunk {
	if doc.Text == "" {
		return nil
	}

	text := doc.Text
	textLen := len(text)

	estimated := (textLen / (s.chunkSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < textLen {
		end := start + s.chunkSize
		if end > textLen {
			end = textLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			SourceID: doc.SourceID,
			Title:    doc.Title,
			Text:     text[start:end],
			Position: position,
		})
		position++

		// The window reached the end of the text; advancing again
		// would only re-emit the overlap.
		if end == textLen {
			break
		}

		start += s.chunkSize - s.overlap
	}

	return chunks
}
