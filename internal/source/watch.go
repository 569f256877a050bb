package source

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher signals when files matching a FileSource's patterns change.
// Notifications are coalesced: a burst of writes yields at least one signal.
type Watcher struct {
	fsw      *fsnotify.Watcher
	patterns []string
	dirs     []string
	Changes  chan struct{}
}

// NewWatcher watches the directories holding the files currently matched by src.
// Watching directories rather than files picks up rotation and new files.
func NewWatcher(src *FileSource) (*Watcher, error) {
	paths, err := src.Paths()
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		Changes: make(chan struct{}, 1),
	}
	for _, pattern := range src.Patterns() {
		if abs, err := filepath.Abs(pattern); err == nil {
			w.patterns = append(w.patterns, filepath.ToSlash(abs))
		}
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		dir := filepath.Dir(abs)
		if slices.Contains(w.dirs, dir) {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			log.Printf("warning: cannot watch %s: %v", dir, err)
			continue
		}
		w.dirs = append(w.dirs, dir)
	}
	return w, nil
}

// Dirs returns the directories being watched.
func (w *Watcher) Dirs() []string {
	return slices.Clone(w.dirs)
}

// Close releases a watcher that was never started.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Start forwards change notifications until ctx is cancelled. It blocks.
func (w *Watcher) Start(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()
	defer close(w.Changes)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			select {
			case w.Changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	abs = filepath.ToSlash(abs)
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.Match(pattern, abs); ok {
			return true
		}
	}
	return false
}
