// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// Pane identifies which pane has keyboard focus.
type Pane int

const (
	// PaneChat is the conversation and its input line.
	PaneChat Pane = iota
	// PaneDocuments is the document list.
	PaneDocuments
)

// String returns the string representation of the pane.
func (p Pane) String() string {
	switch p {
	case PaneChat:
		return "chat"
	case PaneDocuments:
		return "documents"
	default:
		return "unknown"
	}
}

// Next returns the pane that tab moves focus to.
func (p Pane) Next() Pane {
	if p == PaneChat {
		return PaneDocuments
	}
	return PaneChat
}

// StateChanged carries the latest store snapshots. Nil fields did not change.
type StateChanged struct {
	Documents []domain.Document
	History   []domain.ChatMessage
	Selection []string

	// HasSelection distinguishes an empty selection from no change.
	HasSelection bool
}

// ReplyReceived is sent when a chat completion resolves.
type ReplyReceived struct {
	Reply *domain.ChatMessage
	Err   error
}

// SelectionApplied is sent after a selection change has been posted.
type SelectionApplied struct{}

// DocumentDeleted is sent after a delete completes.
type DocumentDeleted struct {
	ID  string
	Err error
}

// ChatCleared is sent after the conversation is truncated.
type ChatCleared struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
