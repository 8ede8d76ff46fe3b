package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve clause retrieval to AI assistants",
	Long: `Expose wilson to AI assistants through the Model Context Protocol.

Tools: ingest_document, extract_clauses, list_documents.
Resources: wilson://documents and wilson://documents/{name}/clauses.

The server speaks JSON-RPC on stdin/stdout unless --http is given; in
stdio mode stdout belongs to the protocol and logs go to stderr.`,
	Example: `  # Launched by a desktop assistant
  wilson mcp serve

  # Streamable HTTP, e.g. for the MCP Inspector
  wilson mcp serve --http 127.0.0.1:8080

  # Assistant configuration
  {"mcpServers": {"wilson": {"command": "wilson", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Clause:    clauseService,
		Ingestion: ingestionService,
		Document:  documentService,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr == "" {
		logger.Info("MCP server ready on stdio")
		return server.Run(cmd.Context())
	}

	cmd.Printf("MCP server listening on %s\n", mcpHTTPAddr)
	return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
}
