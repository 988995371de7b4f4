package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Ask the assistant one question and print the reply.

Use --doc to choose the documents used as context, or --all to use every
ready document. Without either, the assistant answers from general knowledge.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceP("doc", "d", nil, "Document ID to use as context (repeatable)")
	askCmd.Flags().Bool("all", false, "Use every ready document as context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil || selectionCoordinator == nil {
		return errors.New("chat service not configured")
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	ids, err := cmd.Flags().GetStringSlice("doc")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if all {
		if documentService == nil {
			return errors.New("document service not configured")
		}
		docs, err := documentService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		for _, doc := range docs {
			if doc.Status == domain.StatusReady {
				ids = append(ids, doc.ID)
			}
		}
	}
	if len(ids) > 0 {
		selectionCoordinator.SetSelection(ids)
	}

	reply, err := chatService.Send(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to get a reply: %w", err)
	}

	printReply(cmd, *reply)
	return nil
}

func printReply(cmd *cobra.Command, reply domain.ChatMessage) {
	cmd.Println(reply.Content)
	if !reply.HasReferences() {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, ref := range reply.DocumentReferences {
		cmd.Printf("  - %s", ref.DocumentName)
		if ref.PageNumber > 0 {
			cmd.Printf(", page %d", ref.PageNumber)
		}
		if ref.Confidence > 0 {
			cmd.Printf(" (%.0f%%)", ref.Confidence*100)
		}
		cmd.Println()
	}
}
