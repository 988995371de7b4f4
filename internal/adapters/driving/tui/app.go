package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// minDocumentsWidth keeps the documents pane readable on narrow terminals.
const minDocumentsWidth = 32

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// bridge feeds store changes into the update loop.
	bridge *bridge

	documentsView *documents.View
	chatView      *chat.View
	statusBar     *status.Bar

	// focus is the pane receiving key presses.
	focus messages.Pane

	// showHelp replaces the panes with the key reference.
	showHelp bool

	// documents and selection mirror the last snapshots for the status bar.
	documents []domain.Document
	selection domain.Selection

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		bridge:        newBridge(),
		documentsView: documents.NewView(s, km, ports.Documents, ports.Selection),
		chatView:      chat.NewView(s, km, ports.Chat),
		statusBar:     status.NewBar(s, km),
		focus:         messages.PaneChat,
		selection:     domain.Selection{},
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It subscribes to the stores and starts the input cursor.
func (a *App) Init() tea.Cmd {
	a.bridge.subscribe(a.ports)
	return tea.Batch(
		tea.SetWindowTitle("docassist"),
		a.chatView.Init(),
		a.bridge.wait(),
	)
}

// Close releases the store subscriptions.
func (a *App) Close() {
	a.bridge.close()
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.StateChanged:
		a.applyState(msg)
		a.documentsView, _ = a.documentsView.Update(msg)
		a.chatView, _ = a.chatView.Update(msg)
		return a, a.bridge.wait()

	case messages.ReplyReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = msg.Err
		a.refreshStatus()
		return a, cmd

	case messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.refreshStatus()
		}
		return a, cmd

	case messages.ChatCleared:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = nil
		a.refreshStatus()
		return a, cmd

	case messages.SelectionApplied:
		// The new selection arrives through the bridge.
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.refreshStatus()
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blink and other input messages.
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// handleKeyMsg routes key presses to the focused pane.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.SwitchPane):
		return a, a.switchPane()
	case a.showHelp:
		// Any other key closes help.
		a.showHelp = false
		a.refreshStatus()
		return a, nil
	case a.focus == messages.PaneDocuments && keymap.Matches(keyStr, a.keymap.Help):
		a.showHelp = true
		a.statusBar.SetState(status.StateHelp)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.focus {
	case messages.PaneDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.PaneChat:
		a.chatView, cmd = a.chatView.Update(msg)
		a.refreshStatus()
	}
	return a, cmd
}

// switchPane moves focus to the other pane.
func (a *App) switchPane() tea.Cmd {
	a.focus = a.focus.Next()
	a.statusBar.SetPane(a.focus)

	if a.focus == messages.PaneChat {
		return a.chatView.Focus()
	}
	a.chatView.Blur()
	return nil
}

func (a *App) applyState(msg messages.StateChanged) {
	if msg.Documents != nil {
		a.documents = msg.Documents
	}
	if msg.HasSelection {
		a.selection = domain.NewSelection(msg.Selection)
	}

	selected := 0
	for i := range a.documents {
		if a.selection.Contains(a.documents[i].ID) {
			selected++
		}
	}
	a.statusBar.SetCounts(len(a.documents), selected)
}

// refreshStatus derives the status bar state from pending replies and the last error.
func (a *App) refreshStatus() {
	if a.showHelp {
		return
	}
	a.statusBar.Clear()
	switch {
	case a.chatView.Pending() > 0:
		a.statusBar.SetState(status.StateWaiting)
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.err.Error())
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	body := a.viewPanes()
	if a.showHelp {
		body = a.viewHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

// viewPanes renders the documents pane beside the chat pane.
func (a *App) viewPanes() string {
	docsWidth, chatWidth, paneHeight := a.paneSizes()

	docsStyle, chatStyle := a.styles.BlurredPane, a.styles.FocusedPane
	if a.focus == messages.PaneDocuments {
		docsStyle, chatStyle = a.styles.FocusedPane, a.styles.BlurredPane
	}

	docs := docsStyle.Width(docsWidth).Height(paneHeight).Render(a.documentsView.View())
	conversation := chatStyle.Width(chatWidth).Height(paneHeight).Render(a.chatView.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, docs, conversation)
}

// viewHelp renders the key reference.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	titles := []string{"Documents", "Chat", "General"}
	for i, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render(titles[i]))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("Chat commands: /clear, /quit.  Press any key to close."))
	return b.String()
}

// paneSizes returns the content sizes of both panes.
func (a *App) paneSizes() (docsWidth, chatWidth, height int) {
	// border and padding on each side
	const frame = 4

	docsWidth = max(minDocumentsWidth, a.width/3) - frame
	chatWidth = max(20, a.width-docsWidth-2*frame)
	// border rows and status bar
	height = max(5, a.height-3)
	return docsWidth, chatWidth, height
}

// SetDimensions sets the terminal dimensions and resizes every pane.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	docsWidth, chatWidth, paneHeight := a.paneSizes()
	a.documentsView.SetDimensions(docsWidth, paneHeight)
	a.chatView.SetDimensions(chatWidth, paneHeight)
	a.statusBar.SetWidth(width)
}

// Focus returns the focused pane.
func (a *App) Focus() messages.Pane {
	return a.focus
}

// ShowingHelp returns true while the help overlay is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
