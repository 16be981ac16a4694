// ABOUTME: Watches the course folder and keeps the index in sync with file changes
// ABOUTME: Debounces bursts of fsnotify events, re-ingesting written files and dropping removed ones
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 500 * time.Millisecond

// ChangeType is the kind of change observed on a course document
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

// FileChange is one pending change to a course document
type FileChange struct {
	Type ChangeType
	Path string
}

// CourseIndexer applies document changes to the index
type CourseIndexer interface {
	AddCourseDocument(ctx context.Context, path string) (*IngestResult, error)
	RemoveCourseDocument(ctx context.Context, path string) ([]string, error)
}

// Watcher keeps one course folder indexed
type Watcher struct {
	dir      string
	indexer  CourseIndexer
	debounce time.Duration
}

// NewWatcher creates a watcher for dir
func NewWatcher(dir string, indexer CourseIndexer) *Watcher {
	return &Watcher{dir: dir, indexer: indexer, debounce: DefaultDebounce}
}

// SetDebounce overrides the settle delay
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	log.Info("watching course folder", "dir", w.dir)

	pending := make(map[string]*FileChange)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			change := w.handleFsEvent(ev)
			if change == nil {
				continue
			}
			pending[change.Path] = mergeChange(pending[change.Path], change)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]*FileChange)
		}
	}
}

// handleFsEvent maps an fsnotify event to a document change, or nil when the
// event is irrelevant: chmod only, directories, hidden or unsupported files.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) *FileChange {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return nil
	}
	if !SupportedExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return &FileChange{Type: ChangeDeleted, Path: ev.Name}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		if ev.Has(fsnotify.Create) {
			return &FileChange{Type: ChangeCreated, Path: ev.Name}
		}
		return &FileChange{Type: ChangeUpdated, Path: ev.Name}
	}
	return nil
}

// mergeChange folds a new event into the pending one for the same path
func mergeChange(prev, next *FileChange) *FileChange {
	if prev == nil {
		return next
	}
	if prev.Type == ChangeCreated && next.Type == ChangeUpdated {
		return prev
	}
	return next
}

// flush applies pending changes in path order
func (w *Watcher) flush(ctx context.Context, pending map[string]*FileChange) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		w.apply(ctx, pending[p])
	}
}

func (w *Watcher) apply(ctx context.Context, change *FileChange) {
	log.Debug("course document changed", "path", change.Path, "change", change.Type)

	if change.Type == ChangeDeleted {
		if _, err := w.indexer.RemoveCourseDocument(ctx, change.Path); err != nil {
			log.Error("failed to remove course", "path", change.Path, "err", err)
		}
		return
	}

	if _, err := w.indexer.AddCourseDocument(ctx, change.Path); err != nil {
		log.Error("failed to ingest course document", "path", change.Path, "err", err)
	}
}
