package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

func newInitializedHistory(t *testing.T) *ChatHistory {
	t.Helper()
	h := NewChatHistory("")
	require.NoError(t, h.Initialize())
	return h
}

func TestChatHistory_Initialize(t *testing.T) {
	h := NewChatHistory("")

	require.NoError(t, h.Initialize())
	err := h.Initialize()

	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
	msgs := h.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.WelcomeMessage, msgs[0].Content)
	assert.False(t, msgs[0].IsUser)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestChatHistory_CustomWelcome(t *testing.T) {
	h := NewChatHistory("Hi there")
	require.NoError(t, h.Initialize())

	assert.Equal(t, "Hi there", h.Snapshot()[0].Content)
}

func TestChatHistory_AppendPreservesOrder(t *testing.T) {
	h := newInitializedHistory(t)

	h.Append(domain.ChatMessage{ID: "1", Content: "one", IsUser: true})
	h.AddSystemMessage("two")
	h.Append(domain.ChatMessage{ID: "3", Content: "three"})

	msgs := h.Snapshot()
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{domain.WelcomeMessage, "one", "two", "three"}, []string{
		msgs[0].Content, msgs[1].Content, msgs[2].Content, msgs[3].Content,
	})
}

func TestChatHistory_ClearKeepsFirstMessage(t *testing.T) {
	for _, extra := range []int{0, 1, 5} {
		h := newInitializedHistory(t)
		first := h.Snapshot()[0]
		for i := 0; i < extra; i++ {
			h.AddSystemMessage("msg")
		}

		h.Clear()

		msgs := h.Snapshot()
		require.Len(t, msgs, 1)
		assert.Equal(t, first, msgs[0])
	}
}

func TestChatHistory_ClearEmpty(t *testing.T) {
	h := NewChatHistory("")

	h.Clear()

	assert.Empty(t, h.Snapshot())
}

func TestChatHistory_Subscribe(t *testing.T) {
	h := newInitializedHistory(t)
	rec := &recorder[[]domain.ChatMessage]{}
	sub := h.Subscribe(rec.record)
	defer sub.Unsubscribe()

	h.AddSystemMessage("a")
	h.Clear()

	got := rec.all()
	require.Len(t, got, 3)
	assert.Len(t, got[0], 1)
	assert.Len(t, got[1], 2)
	assert.Len(t, got[2], 1)
}

func TestChatHistory_AppendCopiesReferences(t *testing.T) {
	h := newInitializedHistory(t)
	refs := []domain.DocumentReference{{DocumentID: "1"}}

	h.Append(domain.ChatMessage{Content: "x", DocumentReferences: refs})
	refs[0].DocumentID = "changed"

	assert.Equal(t, "1", h.Snapshot()[1].DocumentReferences[0].DocumentID)
}
