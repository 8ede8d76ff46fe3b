package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the web frontend.

Routes:
  GET  /                   health check
  POST /upload/            ingest a document (multipart field "file")
  GET  /clauses/{filename} candidate clauses of every type
  GET  /files              ingested documents

The listen address and allowed CORS origins come from the server.*
settings; --addr overrides the address.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	server, err := httpapi.NewServer(httpapi.Ports{
		Ingestion: ingestionService,
		Clause:    clauseService,
		Document:  documentService,
	}, httpapi.WithAllowedOrigins(settings.Server.AllowedOrigins))
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
