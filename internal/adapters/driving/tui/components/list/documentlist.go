// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// progressWidth is the number of cells in a progress bar.
const progressWidth = 12

// DocumentList displays documents with their status and selection.
type DocumentList struct {
	documents []domain.Document
	selection domain.Selection
	cursor    int
	offset    int
	styles    *styles.Styles
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		selection: domain.Selection{},
		styles:    s,
		width:     40,
		height:    10,
	}
}

// Init initialises the document list.
func (l *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the document list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No documents uploaded")
	}

	visible := l.visibleCount()
	end := l.offset + visible
	if end > len(l.documents) {
		end = len(l.documents)
	}

	lines := make([]string, 0, (end-l.offset)*2+1)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderDocument(i, &l.documents[i]))
	}
	if len(l.documents) > visible {
		lines = append(lines, l.styles.Muted.Render(
			fmt.Sprintf("[%d-%d of %d]", l.offset+1, end, len(l.documents)),
		))
	}
	return strings.Join(lines, "\n")
}

// renderDocument renders one document as a name line and a status line.
func (l *DocumentList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == l.cursor {
		indicator = "> "
	}
	check := "[ ]"
	if l.selection.Contains(doc.ID) {
		check = "[x]"
	}

	name := truncate(doc.Name, l.width-8)
	nameLine := fmt.Sprintf("%s%s %s", indicator, check, name)
	if index == l.cursor {
		nameLine = l.styles.Selected.Render(nameLine)
	} else {
		nameLine = l.styles.Normal.Render(nameLine)
	}

	return nameLine + "\n      " + l.renderStatus(doc)
}

// renderStatus renders the status label, with a progress bar while in flight.
func (l *DocumentList) renderStatus(doc *domain.Document) string {
	label := l.styles.DocumentStatus(doc.Status).Render(doc.Status.Label())

	switch {
	case doc.Status.InProgress():
		return label + " " + l.renderProgress(doc.ProcessingProgress) +
			l.styles.Muted.Render(fmt.Sprintf(" %3d%%", doc.ProcessingProgress))
	case doc.Status == domain.StatusError && doc.Error != "":
		return label + l.styles.Muted.Render(": "+truncate(doc.Error, l.width-14))
	default:
		return label
	}
}

func (l *DocumentList) renderProgress(percent int) string {
	filled := domain.ClampProgress(percent) * progressWidth / domain.ProgressMax
	return l.styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		l.styles.ProgressEmpty.Render(strings.Repeat("░", progressWidth-filled))
}

// SetDocuments replaces the list, keeping the cursor on the same document when possible.
func (l *DocumentList) SetDocuments(docs []domain.Document) {
	var current string
	if doc := l.Current(); doc != nil {
		current = doc.ID
	}

	l.documents = docs
	l.cursor = 0
	for i := range docs {
		if docs[i].ID == current {
			l.cursor = i
			break
		}
	}
	if l.cursor >= len(docs) && len(docs) > 0 {
		l.cursor = len(docs) - 1
	}
	l.adjustScroll()
}

// SetSelection sets which documents are checked.
func (l *DocumentList) SetSelection(ids []string) {
	l.selection = domain.NewSelection(ids)
}

// Documents returns the current documents.
func (l *DocumentList) Documents() []domain.Document {
	return l.documents
}

// Cursor returns the index of the highlighted document.
func (l *DocumentList) Cursor() int {
	return l.cursor
}

// Current returns the highlighted document, or nil if the list is empty.
func (l *DocumentList) Current() *domain.Document {
	if l.cursor < 0 || l.cursor >= len(l.documents) {
		return nil
	}
	return &l.documents[l.cursor]
}

// IsSelected reports whether id is checked.
func (l *DocumentList) IsSelected(id string) bool {
	return l.selection.Contains(id)
}

// MoveUp moves the cursor up.
func (l *DocumentList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.adjustScroll()
	}
}

// MoveDown moves the cursor down.
func (l *DocumentList) MoveDown() {
	if l.cursor < len(l.documents)-1 {
		l.cursor++
		l.adjustScroll()
	}
}

// adjustScroll keeps the cursor visible.
func (l *DocumentList) adjustScroll() {
	visible := l.visibleCount()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if l.offset > 0 && l.offset > len(l.documents)-visible {
		l.offset = max(0, len(l.documents)-visible)
	}
}

// visibleCount returns how many documents fit; each takes two lines.
func (l *DocumentList) visibleCount() int {
	n := (l.height - 1) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.adjustScroll()
}

// Count returns the number of documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.documents) == 0
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
