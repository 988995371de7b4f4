package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure LLMCompletion implements the interface.
var _ driven.CompletionService = (*LLMCompletion)(nil)

// defaultChatSystemPrompt is used when no PromptStore is configured or the
// stored template cannot be loaded.
const defaultChatSystemPrompt = `You are a document assistant. Answer using the selected documents where possible.

Selected documents:
%s`

const noDocumentsLine = "(none selected; answer from general knowledge)"

// DocumentLookup resolves document IDs to documents.
type DocumentLookup interface {
	FindByID(id string) (domain.Document, bool)
}

// LLMCompletion answers through an LLM chat endpoint. The system prompt
// names the selected documents, and the reply cites each of them.
type LLMCompletion struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	docs    DocumentLookup
	opts    driven.ChatOptions
	log     logger.Logger
}

// NewLLMCompletion creates an LLM-backed completion service.
// prompts and docs may be nil.
func NewLLMCompletion(llm driven.LLMService, prompts driven.PromptStore, docs DocumentLookup) *LLMCompletion {
	return &LLMCompletion{
		llm:     llm,
		prompts: prompts,
		docs:    docs,
		opts:    driven.ChatOptions{MaxTokens: 1024, Temperature: 0.3},
		log:     logger.For("completion"),
	}
}

// Complete sends the system prompt and the user's message to the LLM.
func (c *LLMCompletion) Complete(ctx context.Context, message string, documentIDs []string) (*domain.ChatMessage, error) {
	selected := c.resolve(documentIDs)

	messages := []driven.ChatMessage{
		{Role: "system", Content: c.systemPrompt(selected)},
		{Role: "user", Content: message},
	}

	c.log.Debug("asking %s with %d document(s)", c.llm.ModelName(), len(selected))
	text, err := c.llm.Chat(ctx, messages, c.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, errors.New("empty reply from model"))
	}

	reply := &domain.ChatMessage{
		ID:        uuid.NewString(),
		Content:   text,
		Timestamp: time.Now(),
		IsUser:    false,
	}
	for _, doc := range selected {
		reply.DocumentReferences = append(reply.DocumentReferences, domain.DocumentReference{
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
		})
	}
	return reply, nil
}

// resolve keeps the known documents among ids, preserving order.
// Stale IDs are dropped silently.
func (c *LLMCompletion) resolve(ids []string) []domain.Document {
	if c.docs == nil {
		return nil
	}
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := c.docs.FindByID(id); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (c *LLMCompletion) systemPrompt(docs []domain.Document) string {
	template := defaultChatSystemPrompt
	if c.prompts != nil {
		if loaded, err := c.prompts.Load(driven.PromptChatSystem); err == nil && strings.Contains(loaded, "%s") {
			template = loaded
		} else if err != nil {
			c.log.Warn("load %s prompt: %v", driven.PromptChatSystem, err)
		}
	}

	list := noDocumentsLine
	if len(docs) > 0 {
		lines := make([]string, len(docs))
		for i, doc := range docs {
			lines[i] = fmt.Sprintf("- %s (%s, %s)", doc.Name, doc.MimeType, doc.Status.Label())
		}
		list = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(template, list)
}
