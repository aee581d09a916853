package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/indexer"
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/telemetry"
)

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Index every .php file under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		return reportCommand(telemetry.IndexCommand, func() (int, error) {
			total, err := runIndex(dir)
			return total, err
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// runIndex indexes every .php file under dir into a fresh ProjectIndex and
// prints Stats for each file plus a final total. It returns an error only
// when no parser is installed or the directory cannot be read, never on a
// resolution failure — resolution is total (§7).
func runIndex(dir string) (int, error) {
	if ActiveParser == nil {
		return 0, errNoParser
	}
	files, err := walkPhpFiles(dir)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := indexer.NewSession()

	total := 0
	for _, f := range files {
		stop := logger.StartTiming(f.uri)
		root, err := ActiveParser(f.uri, f.contents)
		if err != nil {
			logger.Warning("skipping %s: %v", f.uri, err)
			continue
		}
		stats := indexer.IndexDocument(idx, rc, sess, f.uri, root, false)
		stop()
		logger.Progress("%s: %d definitions, %d references in %s", f.uri, stats.DefinitionsIndexed, stats.ReferencesIndexed, stats.Elapsed)
		total += stats.DefinitionsIndexed + stats.ReferencesIndexed
	}
	logger.Statistic("indexed %d files, %d definitions+references total", len(files), total)
	logger.PrintTimingSummary()
	fmt.Printf("indexed %d files, %d definitions+references total\n", len(files), total)
	return total, nil
}
