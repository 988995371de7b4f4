// Package watch uploads files that appear in a directory.
//
// It is a driving adapter: filesystem events become DocumentService.Upload
// calls, so dropped-in files flow through the same store and upload driver
// as files uploaded from the CLI or TUI.
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

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is uploaded.
const DefaultSettle = 500 * time.Millisecond

// ErrMissingDocumentService is returned when no document service is provided.
var ErrMissingDocumentService = errors.New("watch: document service is required")

// Config controls a Watcher.
type Config struct {
	// Settle delays each upload until writes to the file stop.
	Settle time.Duration

	// IncludeExisting uploads files already in the directory on start.
	IncludeExisting bool

	// OnStarted is called when an upload begins. Optional.
	OnStarted func(doc domain.Document)

	// OnFinished is called with the last state of each upload. Optional.
	OnFinished func(doc domain.Document)
}

// Watcher uploads new files from a single directory.
type Watcher struct {
	dir       string
	documents driving.DocumentService
	cfg       Config
	log       logger.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	uploaded map[string]bool
	stopped  bool
	wg       sync.WaitGroup
}

// New creates a watcher for dir.
func New(dir string, documents driving.DocumentService, cfg Config) (*Watcher, error) {
	if documents == nil {
		return nil, ErrMissingDocumentService
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", dir)
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}

	return &Watcher{
		dir:       dir,
		documents: documents,
		cfg:       cfg,
		log:       logger.For("watch"),
		pending:   make(map[string]*time.Timer),
		uploaded:  make(map[string]bool),
	}, nil
}

// Run watches until ctx is cancelled, then waits for in-flight uploads to end.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.log.Info("watching %s", w.dir)

	defer w.wg.Wait()
	defer w.stopPending()

	if w.cfg.IncludeExisting {
		if err := w.scanExisting(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to upload for event, if any.
// Removing or renaming a file forgets it so a new file with the same name is uploaded again.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if isHidden(event.Name) {
		return "", false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(event.Name)
		return "", false
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return "", false
		}
		return event.Name, true
	default:
		return "", false
	}
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isHidden(entry.Name()) {
			continue
		}
		w.schedule(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || w.uploaded[path] {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.cfg.Settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.cfg.Settle, func() {
		w.upload(ctx, path)
	})
}

func (w *Watcher) upload(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.pending, path)
	if w.stopped || w.uploaded[path] || ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.uploaded[path] = true
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	file, err := readFile(path)
	if err != nil {
		w.log.Warn("skipping %s: %v", path, err)
		return
	}

	doc, stream, err := w.documents.Upload(ctx, file)
	if err != nil {
		w.log.Warn("upload of %s failed: %v", path, err)
		return
	}
	if w.cfg.OnStarted != nil {
		w.cfg.OnStarted(doc)
	}

	last := doc
	for update := range stream.Updates() {
		last = update
	}
	w.log.Debug("%s finished as %s", last.Name, last.Status)
	if w.cfg.OnFinished != nil {
		w.cfg.OnFinished(last)
	}
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.uploaded, path)
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func readFile(path string) (domain.UploadFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadFile{}, err
	}
	return domain.UploadFile{
		Name:    filepath.Base(path),
		Content: content,
	}, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
