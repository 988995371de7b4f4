// Package tui provides an interactive terminal user interface for docassist.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents lists, watches and deletes documents.
	Documents driving.DocumentService

	// Chat holds the conversation and sends messages.
	Chat driving.ChatService

	// Selection holds the documents used as context.
	Selection driving.SelectionCoordinator
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	documents driving.DocumentService,
	chat driving.ChatService,
	selection driving.SelectionCoordinator,
) *Ports {
	return &Ports{
		Documents: documents,
		Chat:      chat,
		Selection: selection,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Selection == nil {
		return ErrMissingSelection
	}
	return nil
}
