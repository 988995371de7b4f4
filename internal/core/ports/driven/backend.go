package driven

import (
	"context"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// UploadBackend stores files remotely and indexes them for retrieval.
// This is an optional service - when nil, uploads are simulated locally.
type UploadBackend interface {
	// Upload transfers the file and returns the stored document.
	// The returned document carries at least the remote URL.
	Upload(ctx context.Context, file domain.UploadFile) (*domain.Document, error)

	// ProcessDocument asks the backend to index a previously uploaded document.
	ProcessDocument(ctx context.Context, documentID, documentURL string) error
}
