package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

const chatHelp = `Commands:
  /docs            List documents and the current selection
  /select [id]...  Use these documents as context (no IDs clears it)
  /toggle id       Add or remove one document
  /clear           Start the conversation over
  /quit            Leave`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a line-based conversation",
	Long: `Start a conversation in the terminal.

On a terminal the prompt supports line editing and history. When input is
piped, each line is sent as one message.

` + chatHelp,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// lineReader yields one line of input at a time.
type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (r *scannerReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil || selectionCoordinator == nil {
		return errors.New("chat service not configured")
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(fd, state) //nolint:errcheck // best-effort terminal reset

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{f, cmd.OutOrStdout()}, "> ")
		return chatLoop(cmd.Context(), t, t)
	}

	return chatLoop(cmd.Context(), &scannerReader{scanner: bufio.NewScanner(in)}, cmd.OutOrStdout())
}

// chatLoop reads lines until EOF or /quit. Messages added to the history
// since the last line are printed after each line.
func chatLoop(ctx context.Context, in lineReader, out io.Writer) error {
	seen := 0
	flush := func() {
		history := chatService.History()
		if seen > len(history) {
			seen = 0
		}
		for _, msg := range history[seen:] {
			if !msg.IsUser {
				writeMessage(out, msg)
			}
		}
		seen = len(history)
	}
	flush()

	for {
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := chatCommand(ctx, out, line); quit {
				return nil
			}
		} else if _, err := chatService.Send(ctx, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		flush()
	}
}

// chatCommand runs a slash command. Returns true to end the loop.
func chatCommand(ctx context.Context, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/clear":
		chatService.Clear()
	case "/select":
		selectionCoordinator.SetSelection(fields[1:])
	case "/toggle":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: /toggle id")
			return false
		}
		selectionCoordinator.Toggle(fields[1])
	case "/docs":
		writeDocuments(ctx, out)
	case "/help":
		fmt.Fprintln(out, chatHelp)
	default:
		fmt.Fprintf(out, "unknown command %s\n%s\n", fields[0], chatHelp)
	}
	return false
}

func writeDocuments(ctx context.Context, out io.Writer) {
	if documentService == nil {
		fmt.Fprintln(out, "document service not configured")
		return
	}
	docs, err := documentService.List(ctx)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	selected := domain.NewSelection(selectionCoordinator.CurrentSelection())
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents uploaded.")
	}
	for _, doc := range docs {
		mark := " "
		if selected.Contains(doc.ID) {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  %s\n", mark, doc.ID, doc.Name, statusText(doc))
	}
}

func writeMessage(out io.Writer, msg domain.ChatMessage) {
	fmt.Fprintf(out, "assistant: %s\n", msg.Content)
	for _, ref := range msg.DocumentReferences {
		fmt.Fprintf(out, "  source: %s", ref.DocumentName)
		if ref.PageNumber > 0 {
			fmt.Fprintf(out, ", page %d", ref.PageNumber)
		}
		fmt.Fprintln(out)
	}
}
