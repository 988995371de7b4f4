package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// mockCompletion is a scripted CompletionService.
type mockCompletion struct {
	mu      sync.Mutex
	reply   *domain.ChatMessage
	err     error
	release chan struct{}
	calls   []completionCall
}

type completionCall struct {
	message     string
	documentIDs []string
}

func (m *mockCompletion) Complete(ctx context.Context, message string, documentIDs []string) (*domain.ChatMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, completionCall{message: message, documentIDs: documentIDs})
	release := m.release
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.reply == nil {
		return nil, nil
	}
	reply := *m.reply
	return &reply, nil
}

func (m *mockCompletion) Calls() []completionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]completionCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockBackend is a scripted UploadBackend.
type mockBackend struct {
	uploadURL  string
	uploadErr  error
	processErr error
	block      bool

	mu        sync.Mutex
	processed []string
}

func (m *mockBackend) Upload(ctx context.Context, file domain.UploadFile) (*domain.Document, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &domain.Document{Name: file.Name, URL: m.uploadURL}, nil
}

func (m *mockBackend) ProcessDocument(_ context.Context, documentID, documentURL string) error {
	m.mu.Lock()
	m.processed = append(m.processed, documentID+"@"+documentURL)
	m.mu.Unlock()
	return m.processErr
}

func (m *mockBackend) Processed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.processed...)
}

// recorder collects every value delivered to a subscriber.
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func (r *recorder[T]) last() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.values) == 0 {
		return zero
	}
	return r.values[len(r.values)-1]
}

// drain reads a progress feed until it closes.
func drain(ch <-chan domain.Document) []domain.Document {
	var out []domain.Document
	for d := range ch {
		out = append(out, d)
	}
	return out
}

func newUploadingDoc(id string) domain.Document {
	return domain.Document{ID: id, Name: id + ".pdf", Status: domain.StatusUploading}
}
