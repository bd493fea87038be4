// Package watch implements the peripheral auto-stage watcher: it watches a
// directory of workbook export files and invokes a callback (normally
// Repo.Stage for the affected cell) once a burst of filesystem activity
// settles. This is a supplemented feature (spec.md does not model a push
// notification path; external callers are expected to call stage()
// themselves), grounded on
// rybkr-gitvista/internal/server/watcher.go's fsnotify event loop shape:
// debounce timer, per-event filtering, logged-and-continued errors.
package watch

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last event on a
// path before invoking the change callback, collapsing a burst of writes
// (editors often truncate-then-write) into one call.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one directory (non-recursively, matching fsnotify's own
// behavior) and calls OnChange(path) once activity on a given path settles.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
	done     chan struct{}
}

// New creates a Watcher on dir. onChange is called on a timer goroutine
// (time.AfterFunc) when a path's debounce window expires; calls for
// different paths may run concurrently.
func New(dir string, onChange func(path string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}

	return &Watcher{
		fs:       fsWatcher,
		debounce: DefaultDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides the default debounce window; intended for tests.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run processes filesystem events until Close is called. It blocks, so
// callers normally invoke it in its own goroutine.
func (w *Watcher) Run() {
	timers := map[string]*time.Timer{}

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			path := event.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				w.onChange(path)
			})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops Run and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

// shouldIgnoreEvent filters out noise: events this watcher doesn't care
// about (chmod-only), editor lock files, and dotfiles.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return true
	}

	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	if strings.HasPrefix(base, ".") {
		return true
	}
	return false
}
