package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/definition"
	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/indexer"
	"github.com/roblourens/php-language-server/queryfilter"
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/resolvecache"
	"github.com/roblourens/php-language-server/sarifreport"
	"github.com/roblourens/php-language-server/symtype"
	"github.com/roblourens/php-language-server/telemetry"
)

var (
	scanFilter string
	scanFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Report references the resolver could not pin down",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := queryfilter.Compile(scanFilter)
		if scanFilter != "" && err != nil {
			return err
		}
		if scanFilter == "" {
			filter = nil
		}
		return reportCommand(telemetry.ScanCommand, func() (int, error) {
			return runScan(args[0], filter)
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanFilter, "filter", "", "Boolean expression over the containing definition's fields")
	scanCmd.Flags().StringVar(&scanFormat, "format", "table", "Output format: table or sarif")
}

// runScan indexes dir, then walks every document again collecting every
// reference that failed to resolve and every member-access or call-target
// expression whose inferred type is Mixed, per §4.14.
func runScan(dir string, filter *queryfilter.Filter) (int, error) {
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
	cr := newCachedResolver(rc)

	type parsed struct {
		uri      string
		root     ast.Node
		revision uint64
	}
	var docs []parsed
	for _, f := range files {
		root, err := ActiveParser(f.uri, f.contents)
		if err != nil {
			logger.Warning("skipping %s: %v", f.uri, err)
			continue
		}
		stats := indexer.IndexDocument(idx, rc, sess, f.uri, root, false)
		docs = append(docs, parsed{uri: f.uri, root: root, revision: stats.Revision})
	}

	var findings []sarifreport.Finding
	for _, d := range docs {
		cr.Revision = d.revision
		walkForFindings(cr, idx, d.root, filter, &findings)
	}

	if scanFormat == "sarif" {
		if err := sarifreport.Write(os.Stdout, findings); err != nil {
			return len(findings), err
		}
	} else {
		printFindingsTable(findings)
	}
	return len(findings), nil
}

func walkForFindings(cr *resolvecache.CachedResolver, idx *index.ProjectIndex, node ast.Node, filter *queryfilter.Filter, out *[]sarifreport.Finding) {
	if node == nil {
		return
	}
	if f := findingFor(cr, node); f != nil {
		if match, err := filter.Matches(containingDefinition(idx, node)); err == nil && match {
			*out = append(*out, *f)
		}
	}
	for _, c := range node.Children() {
		walkForFindings(cr, idx, c, filter, out)
	}
}

// findingFor classifies node as an unresolved reference or an
// unresolved (Mixed) type at a position where a narrower type was
// expected, per §4.14's scan rule. It returns nil when node is neither.
func findingFor(cr *resolvecache.CachedResolver, node ast.Node) *sarifreport.Finding {
	switch node.Kind() {
	case ast.QualifiedName, ast.MemberAccessExpression, ast.ScopedPropertyAccessExpression:
		if _, ok := cr.ReferenceToFqn(node); !ok && isReferenceShaped(node) {
			return &sarifreport.Finding{
				Kind: sarifreport.KindUnresolvedReference,
				URI:  node.URI(),
				Line: node.StartOffset(),
			}
		}
	case ast.CallExpression:
		callee := ast.Child(node, "callee")
		if callee != nil && ast.KindIn(callee.Kind(), ast.MemberAccessExpression, ast.ScopedPropertyAccessExpression, ast.QualifiedName) {
			t := cr.TypeFromExpression(node)
			if t.Kind() == symtype.Mixed {
				return &sarifreport.Finding{
					Kind: sarifreport.KindUnresolvedType,
					URI:  node.URI(),
					Line: node.StartOffset(),
				}
			}
		}
	}
	return nil
}

// isReferenceShaped excludes a bare QualifiedName that isn't actually a
// reference-shaped position (e.g. a type-hint name, already covered by
// type inference rather than the reference resolver).
func isReferenceShaped(node ast.Node) bool {
	if node.Kind() != ast.QualifiedName {
		return true
	}
	parent := node.Parent()
	return parent == nil || !ast.KindIn(parent.Kind(), ast.Parameter)
}

// containingDefinition finds the nearest enclosing declaration's
// Definition, for --filter to evaluate against. Returns the zero
// Definition when node has no enclosing declaration the index knows
// about.
func containingDefinition(idx *index.ProjectIndex, node ast.Node) definition.Definition {
	decl := ast.Ancestor(node,
		ast.MethodDeclaration, ast.FunctionDeclaration,
		ast.ClassDeclaration, ast.InterfaceDeclaration, ast.TraitDeclaration)
	if decl == nil {
		return definition.Definition{}
	}
	f, ok := resolve.DefinedFqn(decl)
	if !ok {
		return definition.Definition{}
	}
	def, _ := idx.GetDefinition(f, false)
	return def
}

func printFindingsTable(findings []sarifreport.Finding) {
	if len(findings) == 0 {
		fmt.Println("no unresolved references or types found")
		return
	}
	for _, f := range findings {
		if f.Candidate != "" {
			fmt.Printf("%-22s %s:%d (candidate %s)\n", f.Kind, f.URI, f.Line, f.Candidate)
		} else {
			fmt.Printf("%-22s %s:%d\n", f.Kind, f.URI, f.Line)
		}
	}
}
