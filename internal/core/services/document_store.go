package services

import (
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driving.DocumentStore = (*DocumentStore)(nil)

// DocumentStore holds the canonical document list.
// It is the only writer of that list; upload drivers go through Update.
type DocumentStore struct {
	docs *observable.Subject[[]domain.Document]
	log  logger.Logger
}

// NewDocumentStore creates a store holding seed in order.
func NewDocumentStore(seed ...domain.Document) *DocumentStore {
	return &DocumentStore{
		docs: observable.New(cloneDocuments(seed)),
		log:  logger.For("documents"),
	}
}

// Add appends doc to the end of the list.
func (s *DocumentStore) Add(doc domain.Document) {
	s.docs.Update(func(cur []domain.Document) []domain.Document {
		next := make([]domain.Document, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, doc)
	})
	s.log.Debug("added %s (%s)", doc.ID, doc.Name)
}

// Update replaces the entry with doc's ID, keeping its position.
// Unknown IDs leave the list unchanged.
func (s *DocumentStore) Update(doc domain.Document) {
	s.docs.Update(func(cur []domain.Document) []domain.Document {
		next := cloneDocuments(cur)
		for i := range next {
			if next[i].ID == doc.ID {
				next[i] = doc
				break
			}
		}
		return next
	})
}

// Remove deletes the entry with id if present.
func (s *DocumentStore) Remove(id string) {
	s.docs.Update(func(cur []domain.Document) []domain.Document {
		next := make([]domain.Document, 0, len(cur))
		for _, d := range cur {
			if d.ID != id {
				next = append(next, d)
			}
		}
		return next
	})
	s.log.Debug("removed %s", id)
}

// Snapshot returns a copy of the current list.
func (s *DocumentStore) Snapshot() []domain.Document {
	return cloneDocuments(s.docs.Value())
}

// Subscribe delivers the current list now and every later list.
// Delivered slices are shared and must not be modified.
func (s *DocumentStore) Subscribe(fn func([]domain.Document)) observable.Subscription {
	return s.docs.Subscribe(fn)
}

// FindByID returns the document with id.
func (s *DocumentStore) FindByID(id string) (domain.Document, bool) {
	return findDocument(s.docs.Value(), id)
}

// WatchDocument calls fn with the document's state on every change,
// starting with the current one.
func (s *DocumentStore) WatchDocument(id string, fn func(domain.Document, bool)) observable.Subscription {
	return s.docs.Subscribe(func(docs []domain.Document) {
		fn(findDocument(docs, id))
	})
}

// Len returns the number of documents.
func (s *DocumentStore) Len() int {
	return len(s.docs.Value())
}

func findDocument(docs []domain.Document, id string) (domain.Document, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

func cloneDocuments(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	copy(out, docs)
	return out
}
