package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// startApp initialises app, sizes it and applies the first bridge delivery.
func startApp(t *testing.T, app *App) {
	t.Helper()
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	syncState(t, app)
}

// syncState applies pending store changes the way the program loop would.
func syncState(t *testing.T, app *App) {
	t.Helper()
	state := app.bridge.take()
	app.Update(state)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestEnv(t).ports())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.PaneChat, app.Focus())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingDocumentService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestEnv(t).app(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app := newTestEnv(t).app(t)

	// Init returns a batch command
	assert.NotNil(t, app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app := newTestEnv(t).app(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_RendersState(t *testing.T) {
	app := newTestEnv(t).app(t)
	startApp(t, app)

	out := app.View()
	assert.True(t, app.Ready())
	assert.Contains(t, out, "Documents (2)")
	assert.Contains(t, out, "Annual Report 2024.pdf")
	assert.Contains(t, out, "Hello!")
	assert.Contains(t, out, "0 of 2 documents selected")
}

func TestApp_SwitchPane(t *testing.T) {
	app := newTestEnv(t).app(t)
	startApp(t, app)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.PaneDocuments, app.Focus())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.PaneChat, app.Focus())
}

func TestApp_ToggleSelection(t *testing.T) {
	env := newTestEnv(t)
	app := env.app(t)
	startApp(t, app)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, messages.SelectionApplied{}, msg)
	app.Update(msg)
	syncState(t, app)

	assert.Equal(t, []string{"1"}, env.selection.CurrentSelection())
	out := app.View()
	assert.Contains(t, out, "[x] Annual Report 2024.pdf")
	assert.Contains(t, out, "1 of 2 documents selected")
	assert.Contains(t, out, "I'm now using 1 document(s)")
}

func TestApp_SendMessage(t *testing.T) {
	env := newTestEnv(t)
	app := env.app(t)
	startApp(t, app)

	app.Update(runes("What does the report say?"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateWaiting, app.statusBar.State())

	msg := cmd()
	reply, ok := msg.(messages.ReplyReceived)
	require.True(t, ok)
	require.NoError(t, reply.Err)

	app.Update(msg)
	syncState(t, app)

	assert.Equal(t, status.StateReady, app.statusBar.State())
	assert.Len(t, env.history.Snapshot(), 3)
	assert.Contains(t, app.View(), "This is a simulated response to:")
}

func TestApp_ReplyError(t *testing.T) {
	app := newTestEnv(t).app(t)
	startApp(t, app)

	app.Update(messages.ReplyReceived{Err: domain.ErrTransportFailure})

	assert.ErrorIs(t, app.Err(), domain.ErrTransportFailure)
	assert.Equal(t, status.StateError, app.statusBar.State())

	app.Update(messages.ChatCleared{})
	assert.NoError(t, app.Err())
	assert.Equal(t, status.StateReady, app.statusBar.State())
}

func TestApp_DeleteDocument(t *testing.T) {
	env := newTestEnv(t)
	app := env.app(t)
	startApp(t, app)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := app.Update(runes("d"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	syncState(t, app)

	assert.Equal(t, 1, env.store.Len())
	assert.Contains(t, app.View(), "Documents (1)")

	app.Update(messages.DocumentDeleted{ID: "x", Err: errors.New("backend down")})
	assert.EqualError(t, app.Err(), "backend down")
}

func TestApp_Help(t *testing.T) {
	app := newTestEnv(t).app(t)
	startApp(t, app)

	// "?" is typed into the chat input while chat is focused.
	app.Update(runes("?"))
	assert.False(t, app.ShowingHelp())
	assert.Equal(t, "?", app.chatView.Input())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(runes("?"))
	require.True(t, app.ShowingHelp())
	assert.Equal(t, status.StateHelp, app.statusBar.State())
	assert.Contains(t, app.View(), "use as context")

	app.Update(runes("x"))
	assert.False(t, app.ShowingHelp())
	assert.Equal(t, status.StateReady, app.statusBar.State())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestEnv(t).app(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("oops")})

	assert.EqualError(t, app.Err(), "oops")
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_Quit(t *testing.T) {
	app := newTestEnv(t).app(t)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_StateChangedRearmsBridge(t *testing.T) {
	app := newTestEnv(t).app(t)

	_, cmd := app.Update(messages.StateChanged{})

	assert.NotNil(t, cmd)
}

func TestApp_PaneSizes(t *testing.T) {
	app := newTestEnv(t).app(t)

	app.SetDimensions(120, 30)
	docs, chat, height := app.paneSizes()
	assert.Equal(t, 36, docs)
	assert.Equal(t, 76, chat)
	assert.Equal(t, 27, height)

	app.SetDimensions(40, 4)
	docs, chat, height = app.paneSizes()
	assert.Equal(t, minDocumentsWidth-4, docs)
	assert.Equal(t, 20, chat)
	assert.Equal(t, 5, height)
}
