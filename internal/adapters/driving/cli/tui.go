package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docassist.

The documents pane lists uploads with their progress. Select documents to
use as context, then ask questions in the chat pane.

Controls:
  Tab        - Switch between documents and chat
  ↑/k, ↓/j   - Move through documents
  Space      - Use document as context
  a / n      - Select all / none
  d          - Delete document
  Enter      - Send message
  Ctrl+L     - Clear chat
  ?          - Toggle help (documents pane)
  Ctrl+C     - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("TUI crashed")
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(documentService, chatService, selectionCoordinator))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer app.Close()

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
