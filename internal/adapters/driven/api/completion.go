package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// ChatPath is the chat endpoint relative to the API base URL.
const ChatPath = "chat"

// ChatRequest is the body posted to the chat endpoint.
type ChatRequest struct {
	Message     string   `json:"message"`
	DocumentIDs []string `json:"documentIds"`
}

// CompletionService asks the document-assistant API for chat replies.
type CompletionService struct {
	client *Client
}

// NewCompletionService creates a completion service on top of client.
func NewCompletionService(client *Client) *CompletionService {
	return &CompletionService{client: client}
}

// Complete posts the message with the selected document IDs and returns the
// assistant message from the response.
func (s *CompletionService) Complete(
	ctx context.Context,
	message string,
	documentIDs []string,
) (*domain.ChatMessage, error) {
	ids := documentIDs
	if ids == nil {
		ids = []string{}
	}

	var reply domain.ChatMessage
	if err := s.client.PostJSON(ctx, ChatPath, ChatRequest{Message: message, DocumentIDs: ids}, &reply); err != nil {
		return nil, transportError("chat", err)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return nil, transportError("chat", errors.New("empty reply"))
	}
	reply.IsUser = false
	return &reply, nil
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrTransportFailure, op, err)
}
