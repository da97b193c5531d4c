// Package watcher reloads a YAML file through rtyaml whenever it changes on
// disk, using fsnotify.
package watcher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yacchi/rtyaml"
)

// DefaultDebounce is how long the watcher waits after the last event before
// reloading. Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// NotifyFunc receives each reloaded document, or the error that prevented
// reloading it. It is called from the watcher's goroutine.
type NotifyFunc func(doc *rtyaml.Document, err error)

// CompareFunc reports whether two file contents differ.
type CompareFunc func(old, new []byte) bool

// DefaultCompareFunc compares contents byte by byte.
func DefaultCompareFunc(old, new []byte) bool {
	return !bytes.Equal(old, new)
}

// HashCompareFunc compares SHA-256 digests of the contents.
func HashCompareFunc(old, new []byte) bool {
	return sha256.Sum256(old) != sha256.Sum256(new)
}

// Watcher watches a single YAML file.
type Watcher struct {
	path     string
	codec    *rtyaml.Codec
	logger   *slog.Logger
	debounce time.Duration
	compare  CompareFunc

	mu      sync.Mutex
	last    []byte
	loaded  bool
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithCodec sets the codec used to decode the file.
// Default is rtyaml.New().
func WithCodec(c *rtyaml.Codec) Option {
	return func(w *Watcher) {
		w.codec = c
	}
}

// WithLogger sets the logger for event tracing. Default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets the quiet period before a reload. Zero reloads on
// every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithCompareFunc sets how changes are detected. Reloads whose content is
// unchanged are not reported.
func WithCompareFunc(f CompareFunc) Option {
	return func(w *Watcher) {
		w.compare = f
	}
}

// New creates a Watcher for path.
//
// Example:
//
//	w := watcher.New("config.yaml", watcher.WithLogger(logger))
//	doc, err := w.Load()
//	err = w.Start(ctx, func(doc *rtyaml.Document, err error) { ... })
//	defer w.Stop()
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.codec == nil {
		w.codec = rtyaml.New()
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.compare == nil {
		w.compare = DefaultCompareFunc
	}
	return w
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// Load reads and decodes the file now. The content becomes the baseline
// for change detection.
func (w *Watcher) Load() (*rtyaml.Document, error) {
	doc, _, err := w.fetch()
	return doc, err
}

// fetch reads the file and decodes it if it differs from the last read.
func (w *Watcher) fetch() (doc *rtyaml.Document, changed bool, err error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file %q: %w", w.path, err)
	}

	w.mu.Lock()
	changed = !w.loaded || w.compare(w.last, data)
	w.last = data
	w.loaded = true
	w.mu.Unlock()

	doc, err = w.codec.Load(bytes.NewReader(data))
	if err != nil {
		return nil, changed, fmt.Errorf("failed to decode %q: %w", w.path, err)
	}
	return doc, changed, nil
}

// Start begins watching. notify is called after each change until ctx is
// cancelled or Stop is called; either way Start may be called again
// afterwards. Calling Start on a running watcher does nothing.
func (w *Watcher) Start(ctx context.Context, notify NotifyFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory rather than the file so that atomic saves
	// (write temp file, rename over) keep being seen.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(ctx, fsw, notify, w.stopCh, w.done)
	return nil
}

// Stop stops watching and waits for the watcher goroutine to exit.
// No notifications are delivered after Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	done := w.done
	w.mu.Unlock()

	<-done
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, notify NotifyFunc, stopCh, done chan struct{}) {
	defer close(done)
	defer fsw.Close()
	defer func() {
		// Exiting on ctx leaves the watcher ready for another Start.
		w.mu.Lock()
		if w.stopCh == stopCh {
			w.running = false
		}
		w.mu.Unlock()
	}()

	filename := filepath.Base(w.path)
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			if w.debounce <= 0 {
				w.reload(notify)
				continue
			}
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			w.reload(notify)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
			notify(nil, err)

		case <-stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) reload(notify NotifyFunc) {
	doc, changed, err := w.fetch()
	if err != nil {
		w.logger.Debug("reload failed", "path", w.path, "error", err)
		notify(nil, err)
		return
	}
	if !changed {
		w.logger.Debug("content unchanged", "path", w.path)
		return
	}
	notify(doc, nil)
}
