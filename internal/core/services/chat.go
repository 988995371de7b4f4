package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure ChatOrchestrator implements the interface.
var _ driving.ChatService = (*ChatOrchestrator)(nil)

// ChatOrchestrator appends user turns and the completions they produce.
// Overlapping sends are not sequenced: each user message is appended at
// call time and each reply when its completion resolves.
type ChatOrchestrator struct {
	history    driving.ChatHistory
	selection  driving.SelectionCoordinator
	completion driven.CompletionService
	log        logger.Logger
}

// NewChatOrchestrator creates a new chat orchestrator.
// completion may be nil, in which case every send fails with a transport failure.
func NewChatOrchestrator(
	history driving.ChatHistory,
	selection driving.SelectionCoordinator,
	completion driven.CompletionService,
) *ChatOrchestrator {
	return &ChatOrchestrator{
		history:    history,
		selection:  selection,
		completion: completion,
		log:        logger.For("chat"),
	}
}

// Send appends the user message and waits for the assistant reply.
// Content is appended as given; driving adapters reject blank input.
func (o *ChatOrchestrator) Send(ctx context.Context, content string) (*domain.ChatMessage, error) {
	o.appendUserMessage(content)
	return o.complete(ctx, content)
}

// SendAsync appends the user message and resolves the reply in the background.
func (o *ChatOrchestrator) SendAsync(ctx context.Context, content string) <-chan driving.SendResult {
	results := make(chan driving.SendResult, 1)
	o.appendUserMessage(content)

	go func() {
		defer close(results)
		reply, err := o.complete(ctx, content)
		results <- driving.SendResult{Reply: reply, Err: err}
	}()
	return results
}

// Clear truncates the conversation to its first message.
func (o *ChatOrchestrator) Clear() {
	o.history.Clear()
}

// History returns a copy of the conversation.
func (o *ChatOrchestrator) History() []domain.ChatMessage {
	return o.history.Snapshot()
}

// Subscribe delivers the conversation now and on every change.
func (o *ChatOrchestrator) Subscribe(fn func([]domain.ChatMessage)) observable.Subscription {
	return o.history.Subscribe(fn)
}

func (o *ChatOrchestrator) appendUserMessage(content string) {
	o.history.Append(domain.ChatMessage{
		ID:        newID(),
		Content:   content,
		Timestamp: clock(),
		IsUser:    true,
	})
}

// complete requests a reply. It appends nothing unless the reply arrives
// while ctx is still live.
func (o *ChatOrchestrator) complete(ctx context.Context, content string) (*domain.ChatMessage, error) {
	if o.completion == nil {
		return nil, transportFailure(domain.ErrCompletionUnavailable)
	}

	var ids []string
	if o.selection != nil {
		ids = o.selection.CurrentSelection()
	}

	o.log.Debug("requesting completion with %d document(s)", len(ids))
	reply, err := o.completion.Complete(ctx, content, ids)
	if err == nil && reply == nil {
		err = errors.New("empty completion")
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		o.log.Warn("completion failed: %v", err)
		return nil, transportFailure(err)
	}

	msg := *reply
	msg.IsUser = false
	if msg.ID == "" {
		msg.ID = newID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = clock()
	}
	msg.DocumentReferences = cloneReferences(msg.DocumentReferences)

	o.history.Append(msg)
	o.log.Debug("reply %s with %d reference(s)", msg.ID, len(msg.DocumentReferences))
	return &msg, nil
}

// transportFailure tags err as domain.ErrTransportFailure unless it already is.
func transportFailure(err error) error {
	if errors.Is(err, domain.ErrTransportFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
}
