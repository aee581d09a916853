package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/symtype"
	"github.com/roblourens/php-language-server/telemetry"
)

var typeCmd = &cobra.Command{
	Use:   "type <file> <offset>",
	Short: "Infer the symbolic type of the expression at a byte offset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("offset must be an integer: %w", err)
		}
		return reportCommand(telemetry.TypeCommand, func() (int, error) {
			return runType(args[0], offset)
		})
	},
}

func init() {
	rootCmd.AddCommand(typeCmd)
}

func runType(path string, offset int) (int, error) {
	_, root, err := parseFile(path)
	if err != nil {
		return 0, err
	}
	node := ast.NodeAtOffset(root, offset)
	if node == nil {
		fmt.Println("mixed (no node at offset)")
		return 0, nil
	}

	rc := &resolve.Context{Index: index.NewProjectIndex()}
	cr := newCachedResolver(rc)
	t := cr.TypeFromExpression(node)
	fmt.Println(describeType(t))
	return 1, nil
}

func describeType(t symtype.Type) string {
	if t.IsCompound() {
		parts := make([]string, 0, len(t.Components()))
		for _, c := range t.Components() {
			parts = append(parts, describeType(c))
		}
		out := parts[0]
		for _, p := range parts[1:] {
			out += "|" + p
		}
		return out
	}
	switch t.Kind() {
	case symtype.Mixed:
		return "mixed"
	case symtype.Boolean:
		return "bool"
	case symtype.Integer:
		return "int"
	case symtype.Float:
		return "float"
	case symtype.String:
		return "string"
	case symtype.ArrayKind:
		return "array"
	case symtype.ObjectKind:
		if f, ok := t.FQSEN(); ok {
			return f.String()
		}
		return "object"
	case symtype.SelfKind:
		return "self"
	case symtype.StaticKind:
		return "static"
	case symtype.ThisKind:
		return "$this"
	default:
		return "mixed"
	}
}
