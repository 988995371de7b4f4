package driving

import (
	"context"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
)

// ChatHistory is the ordered, append-only list of chat messages.
type ChatHistory interface {
	// Initialize seeds the welcome message. A second call returns
	// domain.ErrAlreadyInitialized.
	Initialize() error

	// Append adds a message at the end.
	Append(msg domain.ChatMessage)

	// AddSystemMessage appends a non-user message with a fresh ID and timestamp.
	AddSystemMessage(content string) domain.ChatMessage

	// Clear truncates the history to its first message.
	Clear()

	// Snapshot returns a copy of the current history.
	Snapshot() []domain.ChatMessage

	// Subscribe delivers the current history immediately and then every change.
	Subscribe(fn func([]domain.ChatMessage)) observable.Subscription
}

// SendResult is the outcome of an asynchronous send.
type SendResult struct {
	// Reply is the assistant message. Nil when Err is set.
	Reply *domain.ChatMessage

	// Err wraps domain.ErrTransportFailure when the completion failed.
	Err error
}

// ChatService turns user input into conversation turns.
type ChatService interface {
	// Send appends the user message, requests a completion scoped to the
	// current selection and appends the reply. On failure the user message
	// stays in the history and no reply is appended.
	Send(ctx context.Context, content string) (*domain.ChatMessage, error)

	// SendAsync appends the user message before returning and resolves the
	// completion in the background. The channel yields one result.
	SendAsync(ctx context.Context, content string) <-chan SendResult

	// Clear truncates the history to the welcome message.
	Clear()

	// History returns a copy of the conversation.
	History() []domain.ChatMessage

	// Subscribe delivers the conversation now and on every change.
	Subscribe(fn func([]domain.ChatMessage)) observable.Subscription
}
