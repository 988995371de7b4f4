package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/completion"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/services"
)

var errListFailed = errors.New("list failed")

// failingDocumentService fails every List call.
type failingDocumentService struct {
	*services.DocumentService
}

func (f failingDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return nil, errListFailed
}

type testEnv struct {
	store     *services.DocumentStore
	documents *services.DocumentService
	history   *services.ChatHistory
	selection *services.SelectionCoordinator
	chat      *services.ChatOrchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := services.NewDocumentStore(domain.SampleDocuments()...)
	history := services.NewChatHistory(domain.WelcomeMessage)
	if err := history.Initialize(); err != nil {
		t.Fatal(err)
	}
	selection := services.NewSelectionCoordinator(history)
	simulator := services.NewUploadSimulator(store, services.UploadSimulatorConfig{Steps: 1})

	return &testEnv{
		store:     store,
		documents: services.NewDocumentService(store, simulator),
		history:   history,
		selection: selection,
		chat:      services.NewChatOrchestrator(history, selection, completion.NewSimulated(0)),
	}
}

func (e *testEnv) ports() *Ports {
	return &Ports{Chat: e.chat, Selection: e.selection, Document: e.documents}
}

func (e *testEnv) server(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(e.ports())
	if err != nil {
		t.Fatal(err)
	}
	return s
}
