package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question    string   `json:"question" jsonschema:"the question to ask about the documents"`
	DocumentIDs []string `json:"document_ids,omitempty" jsonschema:"documents to use as context; omit to keep the current selection"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Reply      string            `json:"reply"`
	References []ReferenceOutput `json:"references,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// ReferenceOutput is a document cited by a reply.
type ReferenceOutput struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	PageNumber   int     `json:"page_number,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
}

// SelectInput is the input schema for the select_documents tool.
type SelectInput struct {
	DocumentIDs []string `json:"document_ids" jsonschema:"documents to use as context; empty clears the selection"`
}

// SelectOutput is the output schema for the select_documents tool.
type SelectOutput struct {
	Selected     []string `json:"selected"`
	Announcement string   `json:"announcement"`
}

// ClearInput is the input schema for the clear_chat tool.
type ClearInput struct{}

// ClearOutput is the output schema for the clear_chat tool.
type ClearOutput struct {
	Messages int `json:"messages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the document assistant a question, using the selected documents as context",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_documents",
		Description: "Choose which uploaded documents the assistant uses as context",
	}, s.handleSelect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_chat",
		Description: "Clear the conversation, keeping only the welcome message",
	}, s.handleClear)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if input.DocumentIDs != nil {
		s.ports.Selection.SetSelection(input.DocumentIDs)
	}

	reply, err := s.ports.Chat.Send(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Reply:     reply.Content,
		Timestamp: reply.Timestamp,
	}
	for _, ref := range reply.DocumentReferences {
		output.References = append(output.References, ReferenceOutput{
			DocumentID:   ref.DocumentID,
			DocumentName: ref.DocumentName,
			PageNumber:   ref.PageNumber,
			Confidence:   ref.Confidence,
		})
	}
	return nil, output, nil
}

// handleSelect handles the select_documents tool invocation.
func (s *Server) handleSelect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SelectInput,
) (*mcp.CallToolResult, SelectOutput, error) {
	s.ports.Selection.SetSelection(input.DocumentIDs)
	selected := s.ports.Selection.CurrentSelection()

	return nil, SelectOutput{
		Selected:     selected,
		Announcement: domain.NewSelection(selected).Announcement(),
	}, nil
}

// handleClear handles the clear_chat tool invocation.
func (s *Server) handleClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ClearInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	s.ports.Chat.Clear()
	return nil, ClearOutput{Messages: len(s.ports.Chat.History())}, nil
}
