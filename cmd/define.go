package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/indexer"
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/telemetry"
)

var defineCmd = &cobra.Command{
	Use:   "define <file> <offset>",
	Short: "Resolve the reference at a byte offset to its definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("offset must be an integer: %w", err)
		}
		return reportCommand(telemetry.DefineCommand, func() (int, error) {
			return runDefine(args[0], offset)
		})
	},
}

func init() {
	rootCmd.AddCommand(defineCmd)
}

// runDefine resolves the node at offset in path, consulting an index built
// by indexing path's containing directory first — a single file's own AST
// is rarely enough to resolve a reference to a definition declared
// elsewhere in the project.
func runDefine(path string, offset int) (int, error) {
	if ActiveParser == nil {
		return 0, errNoParser
	}
	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := indexer.NewSession()
	cr := newCachedResolver(rc)

	files, err := walkPhpFiles(filepath.Dir(path))
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", filepath.Dir(path), err)
	}
	var root ast.Node
	targetURI := "file://" + path
	for _, f := range files {
		r, err := ActiveParser(f.uri, f.contents)
		if err != nil {
			logger.Warning("skipping %s: %v", f.uri, err)
			continue
		}
		stats := indexer.IndexDocument(idx, rc, sess, f.uri, r, false)
		if f.uri == targetURI {
			root = r
			cr.Revision = stats.Revision
		}
	}
	if root == nil {
		_, root, err = parseFile(path)
		if err != nil {
			return 0, err
		}
	}

	node := ast.NodeAtOffset(root, offset)
	if node == nil {
		fmt.Println("unresolved")
		return 0, nil
	}

	target, ok := cr.ReferenceToFqn(node)
	if !ok {
		fmt.Println("unresolved")
		return 0, nil
	}
	def, ok := idx.GetDefinition(target, true)
	if !ok {
		fmt.Printf("unresolved (candidate %s)\n", target)
		return 0, nil
	}
	fmt.Printf("%s\n  %s\n  %s:%d\n", def.Fqn, def.DeclarationLine, def.SymbolInfo.Location.URI, def.SymbolInfo.Location.Line)
	return 1, nil
}
