package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles plain text documents.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{
		".txt",
		".md",
		".markdown",
		".rtf",
		".csv",
		".tsv",
		".json",
		".log",
	}
}

// Load reads the file and returns its whitespace-normalised text.
// Files that are not valid UTF-8 are decoded as Latin-1 rather than
// rejected.
func (l *Loader) Load(_ context.Context, path string) (*domain.SourceDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content := loaders.DecodeText(raw)
	return &domain.SourceDocument{
		SourceID: filepath.Base(path),
		Title:    loaders.ExtractTitle(content, path),
		Text:     loaders.NormalizeWhitespace(content),
	}, nil
}

// CheckAvailable reports whether the loader can run. Plain text needs
// no external tooling.
func (l *Loader) CheckAvailable() error {
	return nil
}

// InstallInstructions returns guidance for missing tooling.
func (l *Loader) InstallInstructions() string {
	return ""
}
