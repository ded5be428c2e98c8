// Package watch provides a directory watcher built on fsnotify.
package watch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// FSNotify watches a directory for changes to files with a known
// document extension.
type FSNotify struct {
	watcher    *fsnotify.Watcher
	extensions []string
}

var _ driven.DirWatcher = (*FSNotify)(nil)

// NewFSNotify creates a watcher that reports events for files whose
// extension is in extensions (lowercase, with leading dot).
func NewFSNotify(extensions []string) (*FSNotify, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FSNotify{
		watcher:    w,
		extensions: extensions,
	}, nil
}

// Watch starts monitoring dir. Events for files with unwatched
// extensions are dropped.
func (f *FSNotify) Watch(ctx context.Context, dir string) (<-chan domain.FileEvent, error) {
	if err := f.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan domain.FileEvent, 64)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-f.watcher.Events:
				if !ok {
					return
				}
				if !f.watched(ev.Name) {
					continue
				}

				var op domain.FileOp
				switch {
				case ev.Op.Has(fsnotify.Create):
					op = domain.FileCreated
				case ev.Op.Has(fsnotify.Write):
					op = domain.FileModified
				case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
					op = domain.FileRemoved
				default:
					continue
				}

				select {
				case events <- domain.FileEvent{Path: ev.Name, Op: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-f.watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("watch error: %v", err)
			}
		}
	}()

	return events, nil
}

// Close stops the watcher.
func (f *FSNotify) Close() error {
	return f.watcher.Close()
}

func (f *FSNotify) watched(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range f.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
