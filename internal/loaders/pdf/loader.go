// Package pdf extracts text from PDF files by shelling out to the
// poppler pdftotext tool.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Loader handles PDF documents via pdftotext.
type Loader struct {
	runner driven.CommandRunner
}

// execRunner runs real commands. It is the default runner.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates a PDF loader using the system pdftotext.
func New() *Loader {
	return &Loader{runner: execRunner{}}
}

// NewWithRunner creates a PDF loader with a custom command runner.
// Used in tests to avoid requiring pdftotext.
func NewWithRunner(runner driven.CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load extracts text from the PDF at path. The "-" argument sends
// pdftotext output to stdout.
func (l *Loader) Load(ctx context.Context, path string) (*domain.SourceDocument, error) {
	out, err := l.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w\n%s", ErrPDFToolNotFound, InstallInstructions())
		}
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	content := loaders.DecodeText(out)
	return &domain.SourceDocument{
		SourceID: filepath.Base(path),
		Title:    loaders.ExtractTitle(content, path),
		Text:     loaders.NormalizeWhitespace(content),
	}, nil
}

// CheckAvailable reports whether pdftotext is installed.
func (l *Loader) CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing pdftotext.
func (l *Loader) InstallInstructions() string {
	return InstallInstructions()
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF support. Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}
