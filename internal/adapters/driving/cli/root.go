// Package cli implements the wilson command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services used by the commands. Set by SetServices before Execute.
var (
	ingestionService driving.IngestionService
	clauseService    driving.ClauseService
	documentService  driving.DocumentService
	settingsService  driving.SettingsService

	// supportedFile reports whether the configured parser accepts a path.
	supportedFile func(path string) bool
)

// Exit codes returned by ExitCode.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
	ExitParseFailure = 4
)

var rootCmd = &cobra.Command{
	Use:   "wilson",
	Short: "Find legal clauses in contracts",
	Long: `Wilson ingests contracts and retrieves candidate passages for common
legal clause types: termination, liability, indemnification,
confidentiality and copyright.

Documents are split on their headings, embedded and stored locally.
Clause retrieval returns at most five passages per clause type, in
document order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds the driving ports the commands call.
type Services struct {
	Ingestion driving.IngestionService
	Clause    driving.ClauseService
	Document  driving.DocumentService
	Settings  driving.SettingsService

	// SupportedFile filters which files the watch command ingests.
	// Nil accepts every file.
	SupportedFile func(path string) bool
}

// SetServices configures the services used by the commands.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	clauseService = s.Clause
	documentService = s.Document
	settingsService = s.Settings
	supportedFile = s.SupportedFile
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrParseFailure), errors.Is(err, domain.ErrUnsupportedType):
		return ExitParseFailure
	default:
		return ExitFailure
	}
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
