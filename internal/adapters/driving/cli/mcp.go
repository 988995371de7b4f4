package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about your documents.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, which is handy for the
MCP Inspector web UI.

Tools:      ask, select_documents, clear_chat
Resources:  docassist://documents, docassist://chat/history,
            docassist://documents/{documentId}

Examples:
  # Stdio mode (default)
  docassist mcp serve

  # HTTP mode
  docassist mcp serve --port 8080

Desktop client configuration:
  {
    "mcpServers": {
      "docassist": {
        "command": "/path/to/docassist",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Chat:      chatService,
		Selection: selectionCoordinator,
		Document:  documentService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
