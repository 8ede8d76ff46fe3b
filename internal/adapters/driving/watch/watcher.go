// Package watch ingests documents dropped into a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is checked.
// A changed file is ingested once its size and modification time are the
// same on two consecutive checks. A writer that pauses for longer than that
// still gets a partial file ingested, and the ledger then keeps the complete
// file out; such writers should copy to a dotfile and rename it into place.
const DefaultDebounce = 500 * time.Millisecond

// ErrMissingIngestionService is returned when no ingestion service is given.
var ErrMissingIngestionService = errors.New("watch: ingestion service is required")

// Watcher ingests files created or written in a directory. Each file is
// ingested under its base name, so repeated events for a known document
// are no-ops in the ledger.
type Watcher struct {
	ingest   driving.IngestionService
	dir      string
	debounce time.Duration
	filter   func(path string) bool
	patterns []string
	onResult func(name string, err error)

	mu       sync.Mutex
	pending  map[string]*time.Timer
	observed map[string]fileState
	wg       sync.WaitGroup
}

// fileState is what a stability check compares.
type fileState struct {
	size    int64
	modTime time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter restricts ingestion to paths the filter accepts.
func WithFilter(filter func(path string) bool) Option {
	return func(w *Watcher) {
		if filter != nil {
			w.filter = filter
		}
	}
}

// WithPatterns restricts ingestion to file names matching at least one
// glob pattern. Patterns support braces and character classes, e.g.
// "*.{pdf,docx}" or "contract-[0-9]*".
func WithPatterns(patterns ...string) Option {
	return func(w *Watcher) {
		w.patterns = append(w.patterns, patterns...)
	}
}

// WithResultHandler is called after every ingestion attempt.
func WithResultHandler(fn func(name string, err error)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New creates a watcher for dir.
func New(ingest driving.IngestionService, dir string, opts ...Option) (*Watcher, error) {
	if ingest == nil {
		return nil, ErrMissingIngestionService
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	w := &Watcher{
		ingest:   ingest,
		dir:      dir,
		debounce: DefaultDebounce,
		filter:   func(string) bool { return true },
		pending:  make(map[string]*time.Timer),
		observed: make(map[string]fileState),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range w.patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, p)
		}
	}
	return w, nil
}

// Run ingests the files already in the directory, then watches it until
// ctx is cancelled. Pending ingestions are drained before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	if err := w.ingestExisting(ctx); err != nil {
		logger.Warn("Scanning %s: %v", w.dir, err)
	}

	defer w.drain()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.accepts(event.Name) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Error("Watcher: %v", err)
		}
	}
}

func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !w.accepts(path) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.process(ctx, path)
	}
	return nil
}

// accepts skips hidden and temporary files that editors and browsers
// leave behind while writing, then applies the patterns and the filter.
func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if len(w.patterns) > 0 && !w.matches(base) {
		return false
	}
	return w.filter(path)
}

func (w *Watcher) matches(name string) bool {
	for _, p := range w.patterns {
		// Patterns are validated in New.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// schedule debounces events per path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		if timer.Stop() {
			w.wg.Done()
		}
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if !w.settled(path) {
			if _, err := os.Stat(path); err == nil {
				w.schedule(ctx, path)
			}
			return
		}
		w.process(ctx, path)
	})
	w.pending[path] = timer
}

// settled reports whether path looks the same as at the previous check.
// The first check of a path only records its state.
func (w *Watcher) settled(path string) bool {
	info, err := os.Stat(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		delete(w.observed, path)
		return false
	}
	cur := fileState{size: info.Size(), modTime: info.ModTime()}
	prev, seen := w.observed[path]
	if seen && prev == cur {
		delete(w.observed, path)
		return true
	}
	w.observed[path] = cur
	return false
}

func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	name := filepath.Base(path)
	result, err := w.ingest.Ingest(ctx, path, name)
	switch {
	case err != nil:
		logger.Error("Ingesting %s: %v", name, err)
	case result.AlreadyIngested:
		logger.Debug("%s already ingested", name)
	default:
		logger.Info("Ingested %s (%d pages)", name, result.PagesProcessed)
	}

	if w.onResult != nil {
		w.onResult(name, err)
	}
}

// drain stops timers that have not fired and waits for running ingestions.
func (w *Watcher) drain() {
	w.mu.Lock()
	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
}
