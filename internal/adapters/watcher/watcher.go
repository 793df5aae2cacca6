// Package watcher is an editor-independent event source: it watches a
// workspace tree and reports every file write as a document save.
package watcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"prodtrack/internal/ports"
)

// Defaults
const (
	DefaultDebounce    = 200 * time.Millisecond
	DefaultMaxFileSize = 2 << 20
)

var ignoredDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
}

// Watcher feeds filesystem changes under root to a DocumentEvents sink
type Watcher struct {
	root     string
	events   ports.DocumentEvents
	debounce time.Duration
	maxSize  int64
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time
}

// Option configures the Watcher
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before its save is reported
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMaxFileSize skips files larger than n bytes
func WithMaxFileSize(n int64) Option {
	return func(w *Watcher) {
		w.maxSize = n
	}
}

// WithLogger sets the watcher logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for root
func New(root string, events ports.DocumentEvents, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		events:   events,
		debounce: DefaultDebounce,
		maxSize:  DefaultMaxFileSize,
		logger:   slog.Default(),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run baselines every file under root, then reports writes until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = fw
	defer fw.Close()

	opened, err := w.addTree(w.root, true)
	if err != nil {
		return err
	}
	w.logger.Info("watching workspace", "root", w.root, "files", opened)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.processPending(time.Time{})
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			w.processPending(now)
		}
	}
}

func (w *Watcher) tick() time.Duration {
	if d := w.debounce / 2; d > 10*time.Millisecond {
		return d
	}
	return 10 * time.Millisecond
}

// addTree watches every directory under dir. With open set, existing files
// are read once so later saves are measured against their current size.
func (w *Watcher) addTree(dir string, open bool) (int, error) {
	opened := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path != dir && ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Debug("cannot watch directory", "dir", path, "error", err)
			}
			return nil
		}

		if !open || !d.Type().IsRegular() {
			return nil
		}
		if text, ok := w.readText(path); ok {
			w.events.DidOpen(path, text)
			opened++
		}
		return nil
	})
	if err != nil {
		return opened, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return opened, nil
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) && !ignoredDirs[filepath.Base(event.Name)] {
			// Files created inside a new directory count as saves, so no baseline
			if _, err := w.addTree(event.Name, false); err != nil {
				w.logger.Debug("cannot watch new directory", "dir", event.Name, "error", err)
			}
		}
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// processPending reports files that have been quiet for the debounce period.
// A zero now reports everything.
func (w *Watcher) processPending(now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, changed := range w.pending {
		if now.IsZero() || now.Sub(changed) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if text, ok := w.readText(path); ok {
			w.events.DidSave(path, text)
		}
	}
}

// readText returns the file content if it looks like text
func (w *Watcher) readText(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > w.maxSize {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("cannot read file", "file", path, "error", err)
		}
		return "", false
	}
	if !isText(data) {
		return "", false
	}
	return string(data), true
}

func isText(data []byte) bool {
	head := data
	if len(head) > 8000 {
		head = head[:8000]
	}
	return bytes.IndexByte(head, 0) < 0 && utf8.Valid(data)
}
