package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/completion"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/services"
)

// testServices holds the concrete services installed for a test.
type testServices struct {
	store     *services.DocumentStore
	documents *services.DocumentService
	history   *services.ChatHistory
	selection *services.SelectionCoordinator
	chat      *services.ChatOrchestrator
	settings  *services.SettingsService
}

// setupTestServices installs in-memory services seeded with the sample
// documents and removes them when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	store := services.NewDocumentStore(domain.SampleDocuments()...)
	history := services.NewChatHistory(domain.WelcomeMessage)
	require.NoError(t, history.Initialize())
	selection := services.NewSelectionCoordinator(history)
	simulator := services.NewUploadSimulator(store, services.UploadSimulatorConfig{
		Steps:           2,
		StepInterval:    time.Millisecond,
		ProcessingDelay: time.Millisecond,
	})

	ts := &testServices{
		store:     store,
		documents: services.NewDocumentService(store, simulator),
		history:   history,
		selection: selection,
		chat:      services.NewChatOrchestrator(history, selection, completion.NewSimulated(0)),
		settings:  services.NewSettingsService(memory.NewConfigStore()),
	}

	SetServices(&Services{
		Documents: ts.documents,
		Chat:      ts.chat,
		Selection: ts.selection,
		Settings:  ts.settings,
	})
	t.Cleanup(func() { SetServices(nil) })
	return ts
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	resetContexts(rootCmd)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// resetContexts clears contexts cobra kept from earlier runs so ctx reaches subcommands.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(nil)
	for _, sub := range cmd.Commands() {
		resetContexts(sub)
	}
}
