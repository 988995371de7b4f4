package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

func testLookup() mapLookup {
	return mapLookup{
		"a": {ID: "a", Name: "Annual Report 2024.pdf", MimeType: "application/pdf", Status: domain.StatusReady},
		"b": {ID: "b", Name: "Notes.txt", MimeType: "text/plain", Status: domain.StatusProcessing},
	}
}

// TestLLMCompletion_Complete tests prompt construction and references
func TestLLMCompletion_Complete(t *testing.T) {
	llm := &mockLLM{reply: "  The revenue grew.  "}
	c := NewLLMCompletion(llm, &mockPrompts{template: "Docs:\n%s"}, testLookup())

	reply, err := c.Complete(context.Background(), "How did revenue change?", []string{"a", "stale", "b"})
	require.NoError(t, err)

	assert.Equal(t, "The revenue grew.", reply.Content)
	assert.False(t, reply.IsUser)
	assert.NotEmpty(t, reply.ID)
	assert.False(t, reply.Timestamp.IsZero())
	require.Len(t, reply.DocumentReferences, 2)
	assert.Equal(t, "a", reply.DocumentReferences[0].DocumentID)
	assert.Equal(t, "Notes.txt", reply.DocumentReferences[1].DocumentName)

	msgs := llm.lastMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Docs:\n- Annual Report 2024.pdf")
	assert.Contains(t, msgs[0].Content, "Notes.txt")
	assert.NotContains(t, msgs[0].Content, "stale")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "How did revenue change?", msgs[1].Content)
}

// TestLLMCompletion_NoSelection tests the general-knowledge prompt
func TestLLMCompletion_NoSelection(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	c := NewLLMCompletion(llm, nil, nil)

	reply, err := c.Complete(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, reply.DocumentReferences)
	assert.Contains(t, llm.lastMessages()[0].Content, noDocumentsLine)
}

// TestLLMCompletion_PromptFallback tests that a broken template uses the default
func TestLLMCompletion_PromptFallback(t *testing.T) {
	tests := []struct {
		name    string
		prompts *mockPrompts
	}{
		{"load error", &mockPrompts{err: errBoom}},
		{"template without placeholder", &mockPrompts{template: "no placeholder"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{reply: "ok"}
			_, err := NewLLMCompletion(llm, tt.prompts, nil).Complete(context.Background(), "q", nil)
			require.NoError(t, err)
			assert.Contains(t, llm.lastMessages()[0].Content, "You are a document assistant")
		})
	}
}

// TestLLMCompletion_Failures tests that failures wrap ErrTransportFailure
func TestLLMCompletion_Failures(t *testing.T) {
	tests := []struct {
		name string
		llm  *mockLLM
	}{
		{"chat error", &mockLLM{err: errBoom}},
		{"blank reply", &mockLLM{reply: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := NewLLMCompletion(tt.llm, nil, nil).Complete(context.Background(), "q", nil)
			assert.Nil(t, reply)
			assert.ErrorIs(t, err, domain.ErrTransportFailure)
		})
	}
}
