package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for docassist resources.
const uriScheme = "docassist://"

// documentInfo is a document as exposed to MCP clients.
type documentInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
	Progress int    `json:"progress,omitempty"`
	Selected bool   `json:"selected"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Uploaded documents with their status and selection",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "chat/history",
		Name:        "chat-history",
		Description: "The conversation so far",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "A single uploaded document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleDocumentsResource returns every document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResult(req.Params.URI, []documentInfo{})
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	selected := domain.NewSelection(s.ports.Selection.CurrentSelection())
	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = toDocumentInfo(docs[i], selected)
	}
	return jsonResult(req.Params.URI, infos)
}

// handleHistoryResource returns the conversation.
func (s *Server) handleHistoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, s.ports.Chat.History())
}

// handleDocumentResource returns one document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	selected := domain.NewSelection(s.ports.Selection.CurrentSelection())
	return jsonResult(req.Params.URI, toDocumentInfo(*doc, selected))
}

func toDocumentInfo(doc domain.Document, selected domain.Selection) documentInfo {
	info := documentInfo{
		ID:       doc.ID,
		Name:     doc.Name,
		Type:     doc.MimeType,
		Size:     doc.Size,
		Status:   doc.Status.String(),
		Selected: selected.Contains(doc.ID),
		URL:      doc.URL,
		Error:    doc.Error,
	}
	if doc.Status.InProgress() {
		info.Progress = doc.ProcessingProgress
	}
	return info
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like docassist://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
