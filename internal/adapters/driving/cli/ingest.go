package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ingestName overrides the document name for a single path.
var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents",
	Long: `Parses, chunks and indexes documents so their clauses can be retrieved.

Each document is recorded under its file name unless --name is given.
A name that was already ingested is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestName, "name", "n", "", "document name (single path only)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	if ingestName != "" && len(args) > 1 {
		return errors.New("--name can only be used with a single path")
	}

	ctx := cmd.Context()
	var failed int
	for _, path := range args {
		name := ingestName
		if name == "" {
			name = filepath.Base(path)
		}

		result, err := ingestionService.Ingest(ctx, path, name)
		if err != nil {
			if len(args) == 1 {
				return fmt.Errorf("failed to ingest %s: %w", name, err)
			}
			cmd.PrintErrf("Failed to ingest %s: %v\n", name, err)
			failed++
			continue
		}

		if result.AlreadyIngested {
			cmd.Printf("%s already ingested, skipped\n", name)
			continue
		}
		cmd.Printf("Ingested %s: %d pages\n", name, result.PagesProcessed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
