package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/mockserver"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local stand-in for the document-assistant API",
	Long: `Run an in-memory HTTP server that speaks the document-assistant API.

Point the client at it to exercise the backend upload driver and the
API completion provider without a real deployment:

  docassist mock-server &
  docassist settings api-url http://127.0.0.1:7139/api
  docassist settings upload-driver backend
  docassist settings provider api

Routes:
  GET  /health
  POST /api/chat
  POST /api/FileUpload
  POST /api/process-document
  GET  /api/files
  GET  /api/files/{id}`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE:        runMockServer,
}

func init() {
	flags := mockServerCmd.Flags()
	flags.String("addr", mockserver.DefaultAddr, "Listen address")
	flags.Duration("reply-delay", 0, "Delay applied to every chat reply")
	flags.Duration("process-delay", 0, "Delay applied to every process-document call")
	rootCmd.AddCommand(mockServerCmd)
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	replyDelay, err := cmd.Flags().GetDuration("reply-delay")
	if err != nil {
		return fmt.Errorf("getting reply-delay flag: %w", err)
	}
	processDelay, err := cmd.Flags().GetDuration("process-delay")
	if err != nil {
		return fmt.Errorf("getting process-delay flag: %w", err)
	}

	server := mockserver.New(mockserver.Config{
		ReplyDelay:   replyDelay,
		ProcessDelay: processDelay,
	})

	cmd.Printf("Mock API listening on http://%s/api (Ctrl-C to stop)\n", addr)
	return server.Run(cmd.Context(), addr)
}
