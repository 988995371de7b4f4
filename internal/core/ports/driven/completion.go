package driven

import (
	"context"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// CompletionService produces an assistant reply to a user message, using the
// given documents as context.
//
// Implementations may include:
//   - The document-assistant HTTP API
//   - An LLM chat endpoint (Ollama, OpenAI)
//   - A simulated responder for offline use
type CompletionService interface {
	// Complete returns the assistant's reply. documentIDs may be empty and may
	// contain IDs that no longer exist. Failures should wrap
	// domain.ErrTransportFailure.
	Complete(ctx context.Context, message string, documentIDs []string) (*domain.ChatMessage, error)
}
