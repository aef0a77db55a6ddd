package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold-cli/internal/adapters/driving/mcp"
	"github.com/docfold/docfold-cli/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve [root]",
	Short: "Serve generated documentation over MCP",
	Long: `Start a Model Context Protocol server exposing the generated
documentation tree to AI assistants. The root argument is the directory
that was documented (default "."); the server reads <root>/docs/.

By default the server communicates over stdio using JSON-RPC. Use
--port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docfold serve ~/code/billing

  # HTTP mode (for MCP Inspector, remote access)
  docfold serve ~/code/billing --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	docsDir := filepath.Join(root, services.DocsDirName)
	ports := &mcp.Ports{
		Docs: services.NewDocsService(docsDir),
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
