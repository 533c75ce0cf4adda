// Package watcher ingests files dropped into a directory.
//
// Create and write events are debounced per path so that editors and
// copy tools that write in several steps produce a single ingestion.
// Hidden files and directories are ignored. The directory is not
// watched recursively.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// DefaultDebounce is how long a path must be quiet before it is ingested.
const DefaultDebounce = 500 * time.Millisecond

// ResultFunc receives the outcome of each ingestion attempt.
type ResultFunc func(path string, result *domain.IngestResult, err error)

// Watcher feeds new and changed files in a directory to the ingestion service.
type Watcher struct {
	dir      string
	ingest   driving.IngestionService
	fs       *fsnotify.Watcher
	debounce time.Duration
	scan     bool
	onResult ResultFunc

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialScan ingests the files already present when Run starts.
func WithInitialScan() Option {
	return func(w *Watcher) {
		w.scan = true
	}
}

// WithResultFunc registers a callback for ingestion outcomes.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New starts watching dir. The caller must call Run, or Close when Run is never called.
func New(dir string, ingest driving.IngestionService, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, domain.ErrInvalidInput)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory: %w", dir, domain.ErrInvalidInput)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		ingest:   ingest,
		fs:       fs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close() //nolint:errcheck

	if w.scan {
		if err := w.scanExisting(ctx); err != nil {
			return err
		}
	}

	logger.Info("Watching %s", w.dir)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path, ok := shouldIngest(event)
			if !ok {
				continue
			}
			now := time.Now()
			pending[path] = now.Add(w.debounce)
			// Other paths may be due sooner than the one just touched.
			timer.Reset(untilNext(pending, now))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error: %v", err)

		case <-timer.C:
			next := w.flush(ctx, pending, time.Now())
			if next > 0 {
				timer.Reset(next)
			}
		}
	}
}

// flush ingests every pending path whose deadline has passed and returns
// the wait until the next deadline, or zero when nothing is pending.
func (w *Watcher) flush(ctx context.Context, pending map[string]time.Time, now time.Time) time.Duration {
	due := make([]string, 0, len(pending))
	for path, deadline := range pending {
		if !deadline.After(now) {
			due = append(due, path)
		}
	}
	sort.Strings(due)
	for _, path := range due {
		delete(pending, path)
		w.ingestPath(ctx, path)
	}
	return untilNext(pending, now)
}

// untilNext is the wait until the earliest pending deadline. It is zero
// when nothing is pending and at least a nanosecond otherwise, so an
// overdue path still fires the timer.
func untilNext(pending map[string]time.Time, now time.Time) time.Duration {
	var next time.Duration
	for _, deadline := range pending {
		wait := max(deadline.Sub(now), time.Nanosecond)
		if next == 0 || wait < next {
			next = wait
		}
	}
	return next
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		w.ingestPath(ctx, filepath.Join(w.dir, e.Name()))
	}
	return nil
}

func (w *Watcher) ingestPath(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		// The file may have been removed while debouncing.
		if !errors.Is(err, os.ErrNotExist) {
			w.report(path, nil, fmt.Errorf("read %s: %w", path, err))
		}
		return
	}

	name := filepath.Base(path)
	result, err := w.ingest.IngestFile(ctx, domain.RawFile{
		Name:     name,
		MIMEType: mimeType(name),
		Content:  content,
	}, map[string]any{
		"source": "watch",
		"path":   path,
	})
	w.report(path, result, err)
}

func (w *Watcher) report(path string, result *domain.IngestResult, err error) {
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", path, err)
	} else {
		logger.Info("Ingested %s as %s (%d chunks)", path, result.DocumentID, result.ChunkCount)
	}
	if w.onResult != nil {
		w.onResult(path, result, err)
	}
}

// Close stops the underlying watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

// shouldIngest reports whether event names a visible regular file that
// was created or written.
func shouldIngest(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// mimeType guesses the content type from the extension. Unknown
// extensions are left to the fallback normaliser.
func mimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", ".text", "":
		return "text/plain"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
