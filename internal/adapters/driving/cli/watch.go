package cli

import (
	"errors"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driving/watch"
)

var (
	watchDebounce time.Duration
	watchPatterns []string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest documents dropped into a directory",
	Long: `Ingests the supported documents already in a directory, then keeps
watching it and ingests new or changed files under their file names.

Names that were already ingested are skipped. Stop with Ctrl+C.`,
	Example: `  wilson watch ~/contracts
  wilson watch ~/contracts --pattern "*.{pdf,docx}"`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"quiet period before a changed file is checked for ingestion")
	watchCmd.Flags().StringArrayVarP(&watchPatterns, "pattern", "p", nil,
		"only ingest file names matching a glob (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	// Results arrive from debounce timers on separate goroutines.
	var outMu sync.Mutex
	w, err := watch.New(ingestionService, args[0],
		watch.WithDebounce(watchDebounce),
		watch.WithFilter(supportedFile),
		watch.WithPatterns(watchPatterns...),
		watch.WithResultHandler(func(name string, err error) {
			outMu.Lock()
			defer outMu.Unlock()
			if err != nil {
				cmd.PrintErrf("Failed to ingest %s: %v\n", name, err)
				return
			}
			cmd.Printf("Processed %s\n", name)
		}),
	)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(cmd.Context())
}
