package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// DirWatcher monitors a directory for file changes.
type DirWatcher interface {
	// Watch starts monitoring dir and emits events until ctx is
	// cancelled. The returned channel is closed when watching stops.
	Watch(ctx context.Context, dir string) (<-chan domain.FileEvent, error)

	// Close releases the watcher's resources.
	Close() error
}
