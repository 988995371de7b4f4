package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure BackendUploadDriver implements the interface.
var _ driving.UploadDriver = (*BackendUploadDriver)(nil)

// BackendUploadDriver sends files to an UploadBackend and mirrors the
// backend's progress into the DocumentStore. It is a drop-in replacement
// for UploadSimulator.
type BackendUploadDriver struct {
	store   driving.DocumentStore
	backend driven.UploadBackend
	log     logger.Logger
}

// NewBackendUploadDriver creates a driver for backend.
func NewBackendUploadDriver(store driving.DocumentStore, backend driven.UploadBackend) *BackendUploadDriver {
	return &BackendUploadDriver{
		store:   store,
		backend: backend,
		log:     logger.For("upload"),
	}
}

// Drive uploads file, asks the backend to index it and reports each stage.
// Failures end the run in the error state.
func (d *BackendUploadDriver) Drive(ctx context.Context, doc domain.Document, file domain.UploadFile) driving.ProgressStream {
	runCtx, cancel := context.WithCancel(ctx)
	run := &backendRun{
		store:   d.store,
		cancel:  cancel,
		doc:     doc.WithProgress(domain.StatusUploading, 0),
		updates: make(chan domain.Document, 4),
	}
	context.AfterFunc(runCtx, run.finish)
	go run.execute(runCtx, d.backend, file, d.log)
	return run
}

type backendRun struct {
	store  driving.DocumentStore
	cancel context.CancelFunc

	mu       sync.Mutex
	doc      domain.Document
	finished bool
	updates  chan domain.Document
}

func (r *backendRun) execute(ctx context.Context, backend driven.UploadBackend, file domain.UploadFile, log logger.Logger) {
	defer r.cancel()

	if !r.emit(func(d domain.Document) domain.Document { return d }) {
		return
	}

	log.Debug("uploading %s to backend", file.Name)
	remote, err := backend.Upload(ctx, file)
	if err == nil && remote == nil {
		err = fmt.Errorf("%w: empty upload response", domain.ErrTransportFailure)
	}
	if err != nil {
		r.fail(ctx, err, log)
		return
	}

	if !r.emit(func(d domain.Document) domain.Document {
		d.URL = remote.URL
		return d.WithProgress(domain.StatusProcessing, domain.ProgressMax)
	}) {
		return
	}

	r.mu.Lock()
	id, url := r.doc.ID, r.doc.URL
	r.mu.Unlock()

	log.Debug("processing %s at %s", id, url)
	if err := backend.ProcessDocument(ctx, id, url); err != nil {
		r.fail(ctx, err, log)
		return
	}

	if r.emit(func(d domain.Document) domain.Document {
		return d.WithProgress(domain.StatusReady, domain.ProgressMax)
	}) {
		r.finish()
	}
}

// emit applies change, writes the result to the store and the feed.
// Returns false if the run was cancelled.
func (r *backendRun) emit(change func(domain.Document) domain.Document) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return false
	}
	r.doc = change(r.doc)
	r.store.Update(r.doc)
	r.updates <- r.doc
	return true
}

func (r *backendRun) fail(ctx context.Context, err error, log logger.Logger) {
	if errors.Is(ctx.Err(), context.Canceled) {
		r.finish()
		return
	}
	log.Warn("upload failed: %v", err)
	if r.emit(func(d domain.Document) domain.Document {
		d.Status = domain.StatusError
		d.ProcessingProgress = 0
		d.Error = err.Error()
		return d
	}) {
		r.finish()
	}
}

func (r *backendRun) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	close(r.updates)
}

// Updates returns the per-run progress feed.
func (r *backendRun) Updates() <-chan domain.Document {
	return r.updates
}

// Cancel aborts in-flight requests and closes the feed.
func (r *backendRun) Cancel() {
	r.finish()
	r.cancel()
}

// NewUploadDriver returns the driver selected by settings.
func NewUploadDriver(
	settings domain.UploadSettings,
	store driving.DocumentStore,
	backend driven.UploadBackend,
) (driving.UploadDriver, error) {
	switch settings.Driver {
	case domain.UploadDriverSimulated, "":
		return NewUploadSimulator(store, UploadSimulatorConfigFrom(settings)), nil
	case domain.UploadDriverBackend:
		if backend == nil {
			return nil, domain.ErrUploadBackendUnavailable
		}
		return NewBackendUploadDriver(store, backend), nil
	default:
		return nil, fmt.Errorf("%w: upload driver %q", domain.ErrUnsupportedType, settings.Driver)
	}
}
