package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.ChunkSize())
		}
		if s.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.Overlap())
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		s, err := New(WithChunkSize(500), WithOverlap(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ChunkSize() != 500 {
			t.Errorf("expected chunkSize 500, got %d", s.ChunkSize())
		}
		if s.Overlap() != 100 {
			t.Errorf("expected overlap 100, got %d", s.Overlap())
		}
	})

	t.Run("overlap equals chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrOverlapTooLarge) {
			t.Errorf("expected ErrOverlapTooLarge, got %v", err)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		if !errors.Is(err, domain.ErrOverlapTooLarge) {
			t.Errorf("expected ErrOverlapTooLarge, got %v", err)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s, err := New(WithChunkSize(0), WithOverlap(-1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.ChunkSize())
		}
		if s.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", s.Overlap())
		}
	})
}

func TestSplit_EmptyText(t *testing.T) {
	s, _ := New()
	chunks := s.Split(domain.SourceDocument{SourceID: "doc-1"})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_TextFitsOneWindow(t *testing.T) {
	s, _ := New(WithChunkSize(100), WithOverlap(20))
	doc := domain.SourceDocument{
		SourceID: "doc-1",
		Title:    "Short",
		Text:     strings.Repeat("a", 100),
	}

	chunks := s.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != doc.Text {
		t.Error("single chunk should carry the full text")
	}
	if chunks[0].SourceID != "doc-1" {
		t.Errorf("expected SourceID doc-1, got %s", chunks[0].SourceID)
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
}

func TestSplit_NoTrailingOverlapChunk(t *testing.T) {
	s, _ := New(WithChunkSize(100), WithOverlap(20))

	// Any length up to one window yields exactly one chunk, including
	// lengths past the step size (81..100 here).
	for _, length := range []int{81, 90, 99, 100} {
		doc := domain.SourceDocument{
			SourceID: "doc-1",
			Text:     strings.Repeat("a", length),
		}
		chunks := s.Split(doc)
		if len(chunks) != 1 {
			t.Errorf("length %d: expected 1 chunk, got %d", length, len(chunks))
		}
	}

	// A later window ending exactly at the end of the text is the last
	// one; no overlap-only chunk follows it.
	doc := domain.SourceDocument{
		SourceID: "doc-1",
		Text:     strings.Repeat("a", 180), // windows at 0..100 and 80..180
	}
	chunks := s.Split(doc)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[1].Text) != 100 {
		t.Errorf("expected full final window, got %d chars", len(chunks[1].Text))
	}
}

func TestSplit_OverlapBetweenChunks(t *testing.T) {
	s, _ := New(WithChunkSize(10), WithOverlap(4))
	doc := domain.SourceDocument{
		SourceID: "doc-1",
		Text:     "abcdefghijklmnopqrst", // 20 chars
	}

	chunks := s.Split(doc)
	// step = 6: starts at 0, 6, 12; the window at 12 reaches the end.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "abcdefghij" {
		t.Errorf("unexpected first chunk: %q", chunks[0].Text)
	}
	if chunks[1].Text != "ghijklmnop" {
		t.Errorf("unexpected second chunk: %q", chunks[1].Text)
	}
	if chunks[2].Text != "mnopqrst" {
		t.Errorf("unexpected last chunk: %q", chunks[2].Text)
	}

	// Consecutive chunks share the last `overlap` characters.
	tail := chunks[0].Text[len(chunks[0].Text)-4:]
	head := chunks[1].Text[:4]
	if tail != head {
		t.Errorf("expected overlap %q, got %q", tail, head)
	}

	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
	}
}

func TestSplit_DeterministicText(t *testing.T) {
	s, _ := New(WithChunkSize(50), WithOverlap(10))
	doc := domain.SourceDocument{
		SourceID: "doc-1",
		Text:     strings.Repeat("the quick brown fox ", 20),
	}

	first := s.Split(doc)
	second := s.Split(doc)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("chunk %d text differs between runs", i)
		}
		if first[i].Position != second[i].Position {
			t.Errorf("chunk %d position differs between runs", i)
		}
	}
}

func TestSplit_ReassemblesToOriginal(t *testing.T) {
	s, _ := New(WithChunkSize(100), WithOverlap(30))
	doc := domain.SourceDocument{
		SourceID: "doc-1",
		Text:     strings.Repeat("0123456789", 55),
	}

	chunks := s.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Dropping each chunk's leading overlap reconstructs the input.
	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for _, c := range chunks[1:] {
		b.WriteString(c.Text[30:])
	}
	if got := b.String(); got != doc.Text {
		t.Errorf("reassembled text diverges from input (len %d vs %d)", len(got), len(doc.Text))
	}
}
