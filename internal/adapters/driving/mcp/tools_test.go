package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("selects documents and replies", func(t *testing.T) {
		env := newTestEnv(t)
		server := env.server(t)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "What changed?", DocumentIDs: []string{"2"}})
		require.NoError(t, err)

		assert.Contains(t, out.Reply, `"What changed?"`)
		require.Len(t, out.References, 1)
		assert.Equal(t, "2", out.References[0].DocumentID)
		assert.Equal(t, []string{"2"}, env.selection.CurrentSelection())

		// welcome, selection notice, question, reply
		assert.Len(t, env.chat.History(), 4)
	})

	t.Run("omitted ids keep selection", func(t *testing.T) {
		env := newTestEnv(t)
		env.selection.SetSelection([]string{"1"})
		server := env.server(t)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})
		require.NoError(t, err)
		assert.Equal(t, "1", out.References[0].DocumentID)
	})

	t.Run("blank question is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		server := env.server(t)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "  ", DocumentIDs: []string{"1"}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Len(t, env.chat.History(), 1, "nothing is appended")
		assert.Empty(t, env.selection.CurrentSelection(), "selection is untouched")
	})
}

func TestServer_handleSelect(t *testing.T) {
	env := newTestEnv(t)
	server := env.server(t)

	_, out, err := server.handleSelect(context.Background(), nil, SelectInput{DocumentIDs: []string{"2", "1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, out.Selected)
	assert.Equal(t, "I'm now using 2 document(s) for context in our conversation.", out.Announcement)

	_, out, err = server.handleSelect(context.Background(), nil, SelectInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Selected)
	assert.Equal(t, domain.NoSelectionMessage, out.Announcement)
}

func TestServer_handleClear(t *testing.T) {
	env := newTestEnv(t)
	server := env.server(t)
	env.selection.SetSelection([]string{"1"})

	_, out, err := server.handleClear(context.Background(), nil, ClearInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Messages)
	assert.Equal(t, domain.WelcomeMessage, env.chat.History()[0].Content)
}
