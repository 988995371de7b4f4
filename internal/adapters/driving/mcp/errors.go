// Package mcp provides an MCP (Model Context Protocol) server adapter for docassist.
// It lets AI assistants ask questions about the uploaded documents, change the
// document selection and read the conversation.
package mcp

import "errors"

var (
	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("mcp: chat service is required")

	// ErrMissingSelection is returned when the selection coordinator is not provided.
	ErrMissingSelection = errors.New("mcp: selection coordinator is required")
)
