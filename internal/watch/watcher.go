// Package watch re-runs an action whenever the source tree changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/heimdal-dev/pkgdb/internal/scanner"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 200 * time.Millisecond

// Action is run once at start and after every settled change
type Action func(ctx context.Context) error

// Watcher watches directory trees for source record and schema changes
type Watcher struct {
	dirs      []string
	extension string
	debounce  time.Duration
}

// New creates a watcher over dirs. Files are relevant when they carry
// extension or are JSON schema documents.
func New(dirs []string, extension string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dirs: dirs, extension: extension, debounce: debounce}
}

// Run calls action once, then again after each batch of relevant changes,
// until ctx is cancelled. Errors from action are logged, not returned.
func (w *Watcher) Run(ctx context.Context, action Action) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := addTree(fsw, dir); err != nil {
			return err
		}
	}

	w.invoke(ctx, action)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fsw, event.Name); err != nil {
						logrus.Warnf("Failed to watch %s: %v", event.Name, err)
					}
				}
			}
			if !w.Relevant(event) {
				continue
			}
			logrus.Debugf("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("Watcher error: %v", err)

		case <-fire:
			fire = nil
			w.invoke(ctx, action)
		}
	}
}

func (w *Watcher) invoke(ctx context.Context, action Action) {
	if err := action(ctx); err != nil {
		logrus.Error(err)
	}
}

// Relevant reports whether event can change the outcome of a validation run
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	// A removed or renamed directory may take records with it
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if filepath.Ext(base) == "" {
			return true
		}
	}

	return scanner.IsSourceFile(event.Name, w.extension) || filepath.Ext(base) == ".json"
}

// addTree registers dir and every directory below it. A missing dir is skipped.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logrus.Debugf("Not watching missing directory %s", dir)
		return nil
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
