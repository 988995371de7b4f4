package driving

import (
	"context"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
)

// DocumentStore is the canonical, ordered list of documents.
// Every mutation produces a new list that is delivered to subscribers.
type DocumentStore interface {
	// Add appends doc. Callers must not add an ID that is already present.
	Add(doc domain.Document)

	// Update replaces the document with the same ID in place.
	// Missing IDs are ignored but subscribers are still notified.
	Update(doc domain.Document)

	// Remove deletes the document with the given ID if present.
	Remove(id string)

	// Snapshot returns a copy of the current list.
	Snapshot() []domain.Document

	// Subscribe delivers the current list immediately and then every change.
	Subscribe(fn func([]domain.Document)) observable.Subscription

	// FindByID looks up a single document.
	FindByID(id string) (domain.Document, bool)

	// WatchDocument reports the document's current state on every store change.
	// found is false while the document is absent.
	WatchDocument(id string, fn func(doc domain.Document, found bool)) observable.Subscription
}

// DocumentService is the application-facing document API.
type DocumentService interface {
	// Upload registers a new document in the uploading state and starts
	// driving it through its lifecycle. The returned stream reports every
	// state of the run and closes when the run ends.
	Upload(ctx context.Context, file domain.UploadFile) (domain.Document, ProgressStream, error)

	// Delete removes a document. Unknown IDs are not an error.
	Delete(ctx context.Context, documentID string) error

	// List returns all documents in upload order.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Subscribe delivers the document list now and on every change.
	Subscribe(fn func([]domain.Document)) observable.Subscription

	// WatchDocument tracks one document across store changes.
	WatchDocument(documentID string, fn func(doc domain.Document, found bool)) observable.Subscription
}
