package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// Loader extracts plain text from a document file on disk.
//
// Loaders are registered with the loader registry at startup and
// selected by file extension.
type Loader interface {
	// Extensions returns the file extensions this loader handles,
	// lowercase with leading dot (".txt", ".pdf").
	Extensions() []string

	// Load reads the file at path and returns a source document with
	// whitespace-normalised text. An empty Text means the file had no
	// extractable content.
	Load(ctx context.Context, path string) (*domain.SourceDocument, error)

	// CheckAvailable reports whether any external tooling the loader
	// depends on is installed.
	CheckAvailable() error

	// InstallInstructions returns guidance for installing missing
	// external tooling.
	InstallInstructions() string
}

// CommandRunner executes an external command and returns its stdout.
// It exists so loaders that shell out can be tested without the tool
// installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
