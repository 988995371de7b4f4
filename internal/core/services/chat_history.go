package services

import (
	"sync/atomic"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// Ensure ChatHistory implements the interface.
var _ driving.ChatHistory = (*ChatHistory)(nil)

// ChatHistory is the append-only conversation log.
type ChatHistory struct {
	messages    *observable.Subject[[]domain.ChatMessage]
	welcome     string
	initialized atomic.Bool
}

// NewChatHistory creates an empty history. Initialize seeds it with welcome,
// or with domain.WelcomeMessage when welcome is empty.
func NewChatHistory(welcome string) *ChatHistory {
	if welcome == "" {
		welcome = domain.WelcomeMessage
	}
	return &ChatHistory{
		messages: observable.New([]domain.ChatMessage{}),
		welcome:  welcome,
	}
}

// Initialize seeds the welcome message. It may run only once.
func (h *ChatHistory) Initialize() error {
	if !h.initialized.CompareAndSwap(false, true) {
		return domain.ErrAlreadyInitialized
	}
	h.AddSystemMessage(h.welcome)
	return nil
}

// Append adds msg at the end.
func (h *ChatHistory) Append(msg domain.ChatMessage) {
	msg.DocumentReferences = cloneReferences(msg.DocumentReferences)
	h.messages.Update(func(cur []domain.ChatMessage) []domain.ChatMessage {
		next := make([]domain.ChatMessage, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, msg)
	})
}

// AddSystemMessage appends an assistant-side notice.
func (h *ChatHistory) AddSystemMessage(content string) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        newID(),
		Content:   content,
		Timestamp: clock(),
		IsUser:    false,
	}
	h.Append(msg)
	return msg
}

// Clear keeps only the message currently at index 0.
func (h *ChatHistory) Clear() {
	h.messages.Update(func(cur []domain.ChatMessage) []domain.ChatMessage {
		if len(cur) == 0 {
			return []domain.ChatMessage{}
		}
		return []domain.ChatMessage{cur[0]}
	})
}

// Snapshot returns a copy of the history.
func (h *ChatHistory) Snapshot() []domain.ChatMessage {
	cur := h.messages.Value()
	out := make([]domain.ChatMessage, len(cur))
	copy(out, cur)
	return out
}

// Subscribe delivers the history now and on every change.
// Delivered slices are shared and must not be modified.
func (h *ChatHistory) Subscribe(fn func([]domain.ChatMessage)) observable.Subscription {
	return h.messages.Subscribe(fn)
}

func cloneReferences(refs []domain.DocumentReference) []domain.DocumentReference {
	if refs == nil {
		return nil
	}
	out := make([]domain.DocumentReference, len(refs))
	copy(out, refs)
	return out
}
