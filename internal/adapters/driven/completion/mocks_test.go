package completion

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages []driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append([]driven.ChatMessage(nil), messages...)
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages
}

type mockPrompts struct {
	template string
	err      error
}

func (m *mockPrompts) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.template, nil
}

func (m *mockPrompts) Reload() {}

type mapLookup map[string]domain.Document

func (m mapLookup) FindByID(id string) (domain.Document, bool) {
	doc, ok := m[id]
	return doc, ok
}

var errBoom = errors.New("boom")
