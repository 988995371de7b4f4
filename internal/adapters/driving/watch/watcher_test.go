package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/services"
)

const testSettle = 20 * time.Millisecond

func newDocumentService() (*services.DocumentStore, *services.DocumentService) {
	store := services.NewDocumentStore()
	simulator := services.NewUploadSimulator(store, services.UploadSimulatorConfig{
		Steps:           2,
		StepInterval:    time.Millisecond,
		ProcessingDelay: time.Millisecond,
	})
	return store, services.NewDocumentService(store, simulator)
}

// finished collects OnFinished callbacks.
type finished struct {
	mu   sync.Mutex
	docs []domain.Document
}

func (f *finished) add(doc domain.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
}

func (f *finished) snapshot() []domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Document(nil), f.docs...)
}

// runWatcher starts w and returns a function that stops it and waits for Run.
func runWatcher(t *testing.T, w *Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestNew(t *testing.T) {
	_, documents := newDocumentService()

	t.Run("requires document service", func(t *testing.T) {
		_, err := New(t.TempDir(), nil, Config{})
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope"), documents, Config{})
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := New(path, documents, Config{})
		assert.Error(t, err)
	})

	t.Run("defaults settle", func(t *testing.T) {
		w, err := New(t.TempDir(), documents, Config{})
		require.NoError(t, err)
		assert.Equal(t, DefaultSettle, w.cfg.Settle)
	})
}

// TestHandleFsEvent tests which filesystem events produce uploads.
func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name      string
		setupFile bool
		setupDir  bool
		hidden    bool
		operation fsnotify.Op
		expected  bool
	}{
		{name: "create file", setupFile: true, operation: fsnotify.Create, expected: true},
		{name: "write file", setupFile: true, operation: fsnotify.Write, expected: true},
		{name: "chmod file", setupFile: true, operation: fsnotify.Chmod, expected: false},
		{name: "remove file", operation: fsnotify.Remove, expected: false},
		{name: "rename file", operation: fsnotify.Rename, expected: false},
		{name: "create directory", setupDir: true, operation: fsnotify.Create, expected: false},
		{name: "hidden file", setupFile: true, hidden: true, operation: fsnotify.Create, expected: false},
		{name: "create vanished file", operation: fsnotify.Create, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, documents := newDocumentService()
			w, err := New(dir, documents, Config{})
			require.NoError(t, err)

			name := "report.txt"
			if tt.hidden {
				name = ".report.txt"
			}
			path := filepath.Join(dir, name)
			switch {
			case tt.setupDir:
				require.NoError(t, os.Mkdir(path, 0o755))
			case tt.setupFile:
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
			}

			got, ok := w.handleFsEvent(fsnotify.Event{Name: path, Op: tt.operation})
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, path, got)
			}
		})
	}
}

func TestHandleFsEvent_RemoveForgetsUpload(t *testing.T) {
	dir := t.TempDir()
	_, documents := newDocumentService()
	w, err := New(dir, documents, Config{})
	require.NoError(t, err)

	path := filepath.Join(dir, "a.txt")
	w.uploaded[path] = true

	_, ok := w.handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	assert.False(t, ok)
	assert.False(t, w.uploaded[path])
}

func TestWatcher_UploadsNewFiles(t *testing.T) {
	dir := t.TempDir()
	store, documents := newDocumentService()
	var done finished

	w, err := New(dir, documents, Config{Settle: testSettle, OnFinished: done.add})
	require.NoError(t, err)
	stop := runWatcher(t, w)
	defer stop()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return len(done.snapshot()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	doc := done.snapshot()[0]
	assert.Equal(t, "notes.md", doc.Name)
	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, int64(len("# notes")), doc.Size)

	docs := store.Snapshot()
	require.Len(t, docs, 1)
	assert.Equal(t, domain.StatusReady, docs[0].Status)
}

func TestWatcher_IncludeExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	store, documents := newDocumentService()
	var done finished

	w, err := New(dir, documents, Config{Settle: testSettle, IncludeExisting: true, OnFinished: done.add})
	require.NoError(t, err)
	stop := runWatcher(t, w)
	defer stop()

	require.Eventually(t, func() bool {
		return len(done.snapshot()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	names := make([]string, 0, 2)
	for _, doc := range store.Snapshot() {
		names = append(names, doc.Name)
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.pdf"}, names)
}

func TestWatcher_UploadsOncePerFile(t *testing.T) {
	dir := t.TempDir()
	store, documents := newDocumentService()
	var done finished

	w, err := New(dir, documents, Config{Settle: testSettle, OnFinished: done.add})
	require.NoError(t, err)

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx := context.Background()
	w.schedule(ctx, path)
	w.schedule(ctx, path)

	require.Eventually(t, func() bool {
		return len(done.snapshot()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	w.schedule(ctx, path)
	time.Sleep(3 * testSettle)
	assert.Equal(t, 1, store.Len())
}
