// Package cmd implements the CLI driver (§4.14): subcommands that wire a
// document parser, the resolver, the document indexer, and the resolution
// cache together for one-shot command-line use, the way an editor
// extension would wire them for interactive use.
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roblourens/php-language-server/output"
	"github.com/roblourens/php-language-server/telemetry"
)

var (
	verbosityFlag string
	logger        *output.Logger
)

var rootCmd = &cobra.Command{
	Use:   "php-langserver",
	Short: "Semantic resolution core for a PHP-like language server",
	Long: `php-langserver resolves fully-qualified names and infers symbolic
types across a PHP-like codebase: indexing declarations and references,
answering go-to-definition and hover-type queries, and scanning a project
for names the resolver could not pin down.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		telemetry.LoadEnvFile()
		telemetry.Init(disableMetrics)
		logger = output.NewLogger(verbosityFromFlag(verbosityFlag))
	},
}

func verbosityFromFlag(v string) output.VerbosityLevel {
	switch v {
	case "silent":
		return output.VerbositySilent
	case "verbose":
		return output.VerbosityVerbose
	case "debug":
		return output.VerbosityDebug
	default:
		return output.VerbosityDefault
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().StringVar(&verbosityFlag, "verbosity", "default", "Output verbosity: silent, default, verbose, debug")
}

// reportCommand fires one telemetry event for command, timing the work fn
// performs and reporting the result count fn returns.
func reportCommand(command string, fn func() (resultCount int, err error)) error {
	start := time.Now()
	count, err := fn()
	telemetry.ReportEvent(command, time.Since(start), count)
	return err
}
