package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/completion"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/services"
)

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
	require.NoError(t, history.Initialize())
	selection := services.NewSelectionCoordinator(history)

	return &testEnv{
		store:     store,
		documents: services.NewDocumentService(store, nil),
		history:   history,
		selection: selection,
		chat:      services.NewChatOrchestrator(history, selection, completion.NewSimulated(0)),
	}
}

func (e *testEnv) ports() *Ports {
	return NewPorts(e.documents, e.chat, e.selection)
}

func (e *testEnv) app(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(e.ports())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}
