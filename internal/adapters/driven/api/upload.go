package api

import (
	"bytes"
	"context"
	"errors"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

// Ensure UploadBackend implements the interface.
var _ driven.UploadBackend = (*UploadBackend)(nil)

// Upload endpoints relative to the API base URL.
const (
	UploadPath  = "FileUpload"
	ProcessPath = "process-document"
)

// ProcessRequest is the body posted to the process-document endpoint.
type ProcessRequest struct {
	DocumentID  string `json:"documentId"`
	DocumentURL string `json:"documentUrl"`
}

// UploadBackend stores files through the document-assistant API.
type UploadBackend struct {
	client *Client
}

// NewUploadBackend creates an upload backend on top of client.
func NewUploadBackend(client *Client) *UploadBackend {
	return &UploadBackend{client: client}
}

// Upload sends the file as the "file" form field and returns the stored document.
func (b *UploadBackend) Upload(ctx context.Context, file domain.UploadFile) (*domain.Document, error) {
	part := FilePart{
		Field:    "file",
		Name:     file.Name,
		MimeType: file.MimeType,
		Content:  bytes.NewReader(file.Content),
	}

	var stored domain.Document
	if err := b.client.PostMultipart(ctx, UploadPath, part, &stored); err != nil {
		return nil, transportError("upload", err)
	}
	if stored.URL == "" {
		return nil, transportError("upload", errors.New("response carried no document URL"))
	}
	return &stored, nil
}

// ProcessDocument asks the API to index a stored document.
func (b *UploadBackend) ProcessDocument(ctx context.Context, documentID, documentURL string) error {
	req := ProcessRequest{DocumentID: documentID, DocumentURL: documentURL}
	if err := b.client.PostJSON(ctx, ProcessPath, req, nil); err != nil {
		return transportError("process document", err)
	}
	return nil
}
