// Package chat provides the conversation pane for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// Slash commands understood by the input line.
const (
	commandClear = "/clear"
	commandQuit  = "/quit"
)

// View is the chat pane: the conversation above an input line.
type View struct {
	ctx         context.Context
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	chatService driving.ChatService

	input   *input.ChatInput
	history []domain.ChatMessage
	pending int
	err     error

	// scroll is the number of lines hidden below the viewport.
	scroll int
	width  int
	height int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatService: chatService,
		input:       input.NewChatInput(s),
		width:       60,
		height:      20,
	}
}

// WithContext sets the context passed to completions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StateChanged:
		if msg.History != nil {
			v.history = msg.History
			v.scroll = 0
		}
		return v, nil

	case messages.ReplyReceived:
		if v.pending > 0 {
			v.pending--
		}
		v.err = msg.Err
		return v, nil

	case messages.ChatCleared:
		v.err = nil
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses while the pane is focused.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Send):
		return v, v.submit()
	case keymap.Matches(keyStr, v.keymap.ClearChat):
		return v, v.clear()
	case keyStr == "pgup":
		height := v.viewportHeight()
		v.scroll = min(v.scroll+height/2, max(0, len(v.renderHistory())-height))
		return v, nil
	case keyStr == "pgdown":
		v.scroll = max(0, v.scroll-v.viewportHeight()/2)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the input line or runs a slash command.
func (v *View) submit() tea.Cmd {
	content := strings.TrimSpace(v.input.Value())
	if content == "" {
		return nil
	}
	v.input.Reset()

	switch content {
	case commandClear:
		return v.clear()
	case commandQuit:
		return func() tea.Msg { return messages.Quit{} }
	}

	v.pending++
	v.err = nil
	return v.send(content)
}

// send returns a command that appends the user turn and waits for the reply.
func (v *View) send(content string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ReplyReceived{Err: fmt.Errorf("chat service not available")}
		}
		result := <-v.chatService.SendAsync(v.ctx, content)
		return messages.ReplyReceived{Reply: result.Reply, Err: result.Err}
	}
}

// clear returns a command that truncates the conversation.
func (v *View) clear() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("chat service not available")}
		}
		v.chatService.Clear()
		return messages.ChatCleared{}
	}
}

// View renders the chat pane.
func (v *View) View() string {
	lines := v.renderHistory()

	height := v.viewportHeight()
	end := len(lines) - v.scroll
	if end < height {
		end = min(height, len(lines))
	}
	start := max(0, end-height)

	var b strings.Builder
	b.WriteString(strings.Join(lines[start:end], "\n"))
	for i := end - start; i < height; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	b.WriteString("\n")
	b.WriteString(v.input.View())
	return b.String()
}

// renderHistory renders every message as wrapped lines.
func (v *View) renderHistory() []string {
	body := lipgloss.NewStyle().Width(max(10, v.width-2))

	var lines []string
	for i := range v.history {
		msg := v.history[i]
		if i > 0 {
			lines = append(lines, "")
		}

		if msg.IsUser {
			lines = append(lines, v.styles.UserMessage.Render("You"))
		} else {
			lines = append(lines, v.styles.AssistantMessage.Render("Assistant"))
		}
		lines = append(lines, strings.Split(body.Render(msg.Content), "\n")...)

		for _, ref := range msg.DocumentReferences {
			lines = append(lines, v.styles.SystemMessage.Render("  source: "+referenceText(ref)))
		}
	}
	return lines
}

func (v *View) renderFooter() string {
	switch {
	case v.err != nil:
		return v.styles.Error.Render("Error: " + v.err.Error())
	case v.pending > 0:
		return v.styles.Muted.Render("Assistant is typing...")
	default:
		return ""
	}
}

// viewportHeight is the number of history lines that fit above the input.
func (v *View) viewportHeight() int {
	// footer line and bordered input
	return max(1, v.height-4)
}

// Focus focuses the input line.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}

// Blur blurs the input line.
func (v *View) Blur() {
	v.input.Blur()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// History returns the conversation currently shown.
func (v *View) History() []domain.ChatMessage {
	return v.history
}

// Pending returns the number of replies still outstanding.
func (v *View) Pending() int {
	return v.pending
}

// Input returns the current input line.
func (v *View) Input() string {
	return v.input.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func referenceText(ref domain.DocumentReference) string {
	text := ref.DocumentName
	if text == "" {
		text = ref.DocumentID
	}
	if ref.PageNumber > 0 {
		text += fmt.Sprintf(", page %d", ref.PageNumber)
	}
	return text
}
