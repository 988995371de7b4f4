package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// newAskCmd returns a fresh command with the ask flags so flag values
// do not leak between tests.
func newAskCmd(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{RunE: runAsk}
	cmd.Flags().StringSliceP("doc", "d", nil, "")
	cmd.Flags().Bool("all", false, "")
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())
	return cmd
}

func TestAsk_WithoutSelection(t *testing.T) {
	ts := setupTestServices(t)
	buf := new(bytes.Buffer)

	err := runAsk(newAskCmd(buf), []string{"what", "is", "this?"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `This is a simulated response to: "what is this?"`)
	assert.Contains(t, buf.String(), "Sources:")
	assert.Empty(t, ts.selection.CurrentSelection())
	assert.Len(t, ts.history.Snapshot(), 3)
}

func TestAsk_WithDocs(t *testing.T) {
	ts := setupTestServices(t)
	buf := new(bytes.Buffer)
	cmd := newAskCmd(buf)
	require.NoError(t, cmd.Flags().Set("doc", "2"))

	err := runAsk(cmd, []string{"summarise"})

	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ts.selection.CurrentSelection())

	history := ts.history.Snapshot()
	require.Len(t, history, 4)
	assert.Equal(t, "I'm now using 1 document(s) for context in our conversation.", history[1].Content)
	assert.True(t, history[2].IsUser)
}

func TestAsk_All(t *testing.T) {
	ts := setupTestServices(t)
	ts.store.Add(domain.Document{ID: "3", Name: "draft.txt", Status: domain.StatusProcessing})
	buf := new(bytes.Buffer)
	cmd := newAskCmd(buf)
	require.NoError(t, cmd.Flags().Set("all", "true"))

	require.NoError(t, runAsk(cmd, []string{"compare them"}))

	assert.Equal(t, []string{"1", "2"}, ts.selection.CurrentSelection())
}

func TestAsk_BlankQuestion(t *testing.T) {
	ts := setupTestServices(t)

	err := runAsk(newAskCmd(new(bytes.Buffer)), []string{"   "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, ts.history.Snapshot(), 1, "blank questions never reach the conversation")
}

func TestAsk_NotConfigured(t *testing.T) {
	SetServices(nil)

	err := runAsk(newAskCmd(new(bytes.Buffer)), []string{"hi"})

	assert.EqualError(t, err, "chat service not configured")
}

func TestPrintReply(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	printReply(cmd, domain.ChatMessage{
		Content: "Revenue grew.",
		DocumentReferences: []domain.DocumentReference{
			{DocumentID: "1", DocumentName: "Annual Report 2024.pdf", PageNumber: 5, Confidence: 0.92},
			{DocumentID: "2", DocumentName: "Project Proposal.docx"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Revenue grew.")
	assert.Contains(t, out, "  - Annual Report 2024.pdf, page 5 (92%)")
	assert.Contains(t, out, "  - Project Proposal.docx\n")
}
