package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// LoaderRegistry selects the appropriate loader for a file.
// It dispatches on file extension.
type LoaderRegistry interface {
	// Register adds a loader to the registry.
	Register(loader Loader)

	// Load extracts text from the file using the matching loader.
	// Returns domain.ErrUnsupportedType when no loader claims the
	// extension.
	Load(ctx context.Context, path string) (*domain.SourceDocument, error)

	// Extensions returns all file extensions that can be loaded.
	Extensions() []string
}
