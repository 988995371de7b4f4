package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService registers uploads in the DocumentStore and hands them to
// the configured UploadDriver.
type DocumentService struct {
	store  driving.DocumentStore
	driver driving.UploadDriver
	log    logger.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driving.DocumentStore, driver driving.UploadDriver) *DocumentService {
	return &DocumentService{
		store:  store,
		driver: driver,
		log:    logger.For("documents"),
	}
}

// Upload creates the document in the uploading state and starts its run.
func (s *DocumentService) Upload(
	ctx context.Context,
	file domain.UploadFile,
) (domain.Document, driving.ProgressStream, error) {
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return domain.Document{}, nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if s.driver == nil {
		return domain.Document{}, nil, fmt.Errorf("%w: no upload driver", domain.ErrUploadBackendUnavailable)
	}

	if file.MimeType == "" {
		file.MimeType = detectMimeType(name)
	}

	doc := domain.Document{
		ID:         newID(),
		Name:       filepath.Base(name),
		Size:       file.ByteSize(),
		MimeType:   file.MimeType,
		UploadDate: clock(),
		Status:     domain.StatusUploading,
	}

	s.store.Add(doc)
	s.log.Info("upload started: %s (%d bytes)", doc.Name, doc.Size)

	return doc, s.driver.Drive(ctx, doc, file), nil
}

// Delete removes a document. Unknown IDs are ignored.
func (s *DocumentService) Delete(_ context.Context, documentID string) error {
	s.store.Remove(documentID)
	return nil
}

// List returns all documents in upload order.
func (s *DocumentService) List(_ context.Context) ([]domain.Document, error) {
	return s.store.Snapshot(), nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(_ context.Context, documentID string) (*domain.Document, error) {
	doc, ok := s.store.FindByID(documentID)
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	return &doc, nil
}

// Subscribe delivers the document list now and on every change.
func (s *DocumentService) Subscribe(fn func([]domain.Document)) observable.Subscription {
	return s.store.Subscribe(fn)
}

// WatchDocument tracks one document across store changes.
func (s *DocumentService) WatchDocument(documentID string, fn func(domain.Document, bool)) observable.Subscription {
	return s.store.WatchDocument(documentID, fn)
}

// detectMimeType guesses a media type from the file extension.
func detectMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := knownMimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// knownMimeTypes covers office formats that system mime tables often lack.
var knownMimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".md":   "text/markdown",
}
