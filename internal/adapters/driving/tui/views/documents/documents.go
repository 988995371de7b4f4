// Package documents provides the documents pane for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// View is the documents pane. It shows every document with its upload
// progress and lets the user choose which ones the assistant reads.
type View struct {
	ctx             context.Context
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService
	selection       driving.SelectionCoordinator

	list   *list.DocumentList
	width  int
	height int
	err    error
}

// NewView creates a new documents view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	documentService driving.DocumentService,
	selection driving.SelectionCoordinator,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		documentService: documentService,
		selection:       selection,
		list:            list.NewDocumentList(s),
	}
}

// WithContext sets the context passed to service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StateChanged:
		if msg.Documents != nil {
			v.list.SetDocuments(msg.Documents)
		}
		if msg.HasSelection {
			v.list.SetSelection(msg.Selection)
		}
		return v, nil

	case messages.DocumentDeleted:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses while the pane is focused.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up), keymap.Matches(keyStr, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(keyStr, v.keymap.Toggle):
		if doc := v.list.Current(); doc != nil {
			return v, v.toggle(doc.ID)
		}
	case keymap.Matches(keyStr, v.keymap.SelectAll):
		return v, v.setSelection(readyIDs(v.list.Documents()))
	case keymap.Matches(keyStr, v.keymap.SelectNone):
		return v, v.setSelection(nil)
	case keymap.Matches(keyStr, v.keymap.Delete):
		if doc := v.list.Current(); doc != nil {
			return v, v.deleteDocument(doc.ID)
		}
	}
	return v, nil
}

// toggle returns a command that flips one document in the selection.
func (v *View) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		if v.selection == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("selection not available")}
		}
		v.selection.Toggle(id)
		return messages.SelectionApplied{}
	}
}

// setSelection returns a command that replaces the selection.
func (v *View) setSelection(ids []string) tea.Cmd {
	return func() tea.Msg {
		if v.selection == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("selection not available")}
		}
		v.selection.SetSelection(ids)
		return messages.SelectionApplied{}
	}
}

// deleteDocument returns a command that removes a document.
func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{ID: id, Err: fmt.Errorf("document service not available")}
		}
		err := v.documentService.Delete(v.ctx, id)
		return messages.DocumentDeleted{ID: id, Err: err}
	}
}

// View renders the documents pane.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", v.list.Count())))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())

	if v.err != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// title, blank line and error line
	v.list.SetDimensions(width, height-4)
}

// Documents returns the documents currently shown.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// SelectedDocument returns the highlighted document.
func (v *View) SelectedDocument() *domain.Document {
	return v.list.Current()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// readyIDs returns the IDs of documents that finished processing.
func readyIDs(docs []domain.Document) []string {
	ids := make([]string, 0, len(docs))
	for i := range docs {
		if docs[i].Status == domain.StatusReady {
			ids = append(ids, docs[i].ID)
		}
	}
	return ids
}
