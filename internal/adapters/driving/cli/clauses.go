package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

var (
	clausesType string
	clausesJSON bool
)

// maxSnippetLength bounds the passage text printed per candidate.
const maxSnippetLength = 400

var clausesCmd = &cobra.Command{
	Use:   "clauses [document]",
	Short: "Show candidate clauses of a document",
	Long: `Retrieves the passages of an ingested document that best match each
clause type. At most five passages are shown per type, in document order.

Clause types: Termination, Liability, Indemnification, Confidentiality,
Copyright.`,
	Args: cobra.ExactArgs(1),
	RunE: runClauses,
}

func init() {
	clausesCmd.Flags().StringVarP(&clausesType, "type", "t", "", "only this clause type")
	clausesCmd.Flags().BoolVar(&clausesJSON, "json", false, "output candidates as JSON")
	rootCmd.AddCommand(clausesCmd)
}

func runClauses(cmd *cobra.Command, args []string) error {
	if clauseService == nil {
		return errors.New("clause service not configured")
	}

	document := args[0]
	ctx := cmd.Context()

	var (
		candidates []domain.ClauseCandidate
		err        error
	)
	if clausesType != "" {
		ct, parseErr := domain.ParseClauseType(clausesType)
		if parseErr != nil {
			return parseErr
		}
		candidates, err = clauseService.Extract(ctx, document, ct)
	} else {
		candidates, err = clauseService.ExtractAll(ctx, document)
	}
	if err != nil {
		return fmt.Errorf("failed to extract clauses: %w", err)
	}

	if clausesJSON {
		return outputClausesJSON(cmd, candidates)
	}
	outputClauses(cmd, document, candidates, newStyles(isTerminal(cmd.OutOrStdout())))
	return nil
}

func outputClausesJSON(cmd *cobra.Command, candidates []domain.ClauseCandidate) error {
	if candidates == nil {
		candidates = []domain.ClauseCandidate{}
	}
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputClauses(cmd *cobra.Command, document string, candidates []domain.ClauseCandidate, st styles) {
	if len(candidates) == 0 {
		cmd.Printf("No clauses found in %s.\n", document)
		return
	}

	var current domain.ClauseType
	for i := range candidates {
		c := &candidates[i]
		if c.ClauseType != current {
			if current != "" {
				cmd.Println()
			}
			current = c.ClauseType
			cmd.Println(st.Title.Render(string(current)))
		}

		line := fmt.Sprintf("  [p.%d] %s %s", c.Metadata.PageNumber, c.ID,
			st.Distance.Render(fmt.Sprintf("(%.3f)", c.Distance)))
		cmd.Println(line)
		if labels := c.Metadata.Headings.Labels(); len(labels) > 0 {
			cmd.Println("    " + st.Heading.Render(strings.Join(labels, " > ")))
		}
		cmd.Println(st.Body.Render(snippet(c.Text, maxSnippetLength)))
	}

	cmd.Println()
	cmd.Println(st.Muted.Render(fmt.Sprintf("%d candidates", len(candidates))))
}

// snippet collapses whitespace and truncates text to n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
