package loaders

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry dispatches file loading to the loader registered for the
// file's extension.
type Registry struct {
	byExt map[string]driven.Loader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Loader)}
}

// Register adds a loader. Later registrations win on extension clashes.
func (r *Registry) Register(loader driven.Loader) {
	for _, ext := range loader.Extensions() {
		r.byExt[strings.ToLower(ext)] = loader
	}
}

// Load extracts text from the file at path.
func (r *Registry) Load(ctx context.Context, path string) (*domain.SourceDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no loader for %q", domain.ErrUnsupportedType, ext)
	}
	return loader.Load(ctx, path)
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Loaders returns the distinct registered loaders, ordered by their
// first extension.
func (r *Registry) Loaders() []driven.Loader {
	seen := make(map[driven.Loader]bool)
	var loaders []driven.Loader
	for _, ext := range r.Extensions() {
		l := r.byExt[ext]
		if seen[l] {
			continue
		}
		seen[l] = true
		loaders = append(loaders, l)
	}
	return loaders
}

// ScanOption adjusts how ScanDirectory reports documents.
type ScanOption func(*scanConfig)

type scanConfig struct {
	relativeKeys bool
}

// WithRelativeKeys keys scanned documents by their path relative to
// the scan root instead of the file base name. Useful when a corpus
// repeats file names across subdirectories.
func WithRelativeKeys() ScanOption {
	return func(c *scanConfig) {
		c.relativeKeys = true
	}
}

// ScanResult summarises a directory scan.
type ScanResult struct {
	// Documents are the successfully loaded, non-empty documents.
	Documents []domain.SourceDocument

	// SkippedUnsupported counts files with no registered loader.
	SkippedUnsupported int

	// SkippedEmpty counts files that loaded but had no text.
	SkippedEmpty int

	// SkippedUnreadable counts files that could not be read.
	SkippedUnreadable int
}

// ScanDirectory walks root recursively and loads every file with a
// registered extension. Unreadable and empty files are skipped with a
// warning, never fatal; an unreadable directory entry aborts only its
// own subtree.
func (r *Registry) ScanDirectory(ctx context.Context, root string, opts ...ScanOption) (*ScanResult, error) {
	var cfg scanConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &ScanResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			result.SkippedUnreadable++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := r.byExt[ext]; !ok {
			result.SkippedUnsupported++
			return nil
		}

		doc, err := r.Load(ctx, path)
		if err != nil {
			logger.Warn("failed to load %s: %v", path, err)
			result.SkippedUnreadable++
			return nil
		}
		if doc.Text == "" {
			logger.Info("no extractable text in %s", path)
			result.SkippedEmpty++
			return nil
		}

		if cfg.relativeKeys {
			if rel, relErr := filepath.Rel(root, path); relErr == nil {
				doc.SourceID = filepath.ToSlash(rel)
			}
		}
		result.Documents = append(result.Documents, *doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	logger.Debug("scan of %s: %d documents, %d unsupported, %d empty, %d unreadable",
		root, len(result.Documents), result.SkippedUnsupported, result.SkippedEmpty, result.SkippedUnreadable)

	return result, nil
}
