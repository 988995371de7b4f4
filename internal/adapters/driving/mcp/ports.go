package mcp

import (
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions and holds the conversation.
	Chat driving.ChatService

	// Selection holds the documents used as context.
	Selection driving.SelectionCoordinator

	// Document lists uploaded documents. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Selection == nil {
		return ErrMissingSelection
	}
	return nil
}
