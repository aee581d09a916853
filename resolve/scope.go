package resolve

import (
	"strings"

	"github.com/roblourens/php-language-server/ast"
)

// ResolveVariable implements the variable scope resolver (§4.6): given a
// reference to a local variable, find the parameter, closure capture, or
// assignment that introduces it. It returns ("", false)-equivalent
// (nil, false) when no introducing node is found before the document
// root.
func ResolveVariable(node ast.Node) (ast.Node, bool) {
	name := variableName(node)
	if name == "" {
		return nil, false
	}
	current := node
	for current != nil {
		for _, sib := range ast.PrevSiblings(current) {
			if def, ok := assignmentDefining(sib, name); ok {
				return def, true
			}
		}
		parent := current.Parent()
		if parent == nil {
			return nil, false
		}
		if isFunctionLike(parent) {
			return paramOrCapture(parent, name)
		}
		current = parent
	}
	return nil, false
}

func isFunctionLike(node ast.Node) bool {
	return ast.KindIn(node.Kind(), ast.FunctionDeclaration, ast.MethodDeclaration, ast.AnonymousFunctionCreationExpression)
}

// assignmentDefining reports whether sib is an expression statement whose
// expression is a simple `name = rhs` assignment (`=` only, never a
// compound-assignment variant), returning the AssignmentExpression node
// itself as the definition node.
func assignmentDefining(sib ast.Node, name string) (ast.Node, bool) {
	if sib.Kind() != ast.ExpressionStatement {
		return nil, false
	}
	expr := ast.Child(sib, "expression")
	if expr == nil || expr.Kind() != ast.AssignmentExpression {
		return nil, false
	}
	if !isSimpleAssignOperator(expr) {
		return nil, false
	}
	lhs := ast.Child(expr, "left")
	if lhs == nil || lhs.Kind() != ast.Variable || variableName(lhs) != name {
		return nil, false
	}
	return expr, true
}

func isSimpleAssignOperator(assign ast.Node) bool {
	if op := ast.Child(assign, "operator"); op != nil {
		return op.Text() == "="
	}
	return false
}

func paramOrCapture(funcNode ast.Node, name string) (ast.Node, bool) {
	if params := ast.Child(funcNode, "parameters"); params != nil {
		for _, p := range params.Children() {
			if p.Kind() == ast.Parameter && parameterName(p) == name {
				return p, true
			}
		}
	}
	if funcNode.Kind() == ast.AnonymousFunctionCreationExpression {
		if uses := ast.Child(funcNode, "uses"); uses != nil {
			for _, u := range uses.Children() {
				if u.Kind() == ast.UseVariableName && captureName(u) == name {
					return u, true
				}
			}
		}
	}
	return nil, false
}

func variableName(node ast.Node) string {
	if nn, ok := node.(ast.NameNode); ok {
		return nn.Name()
	}
	return strings.TrimPrefix(node.Text(), "$")
}

func parameterName(p ast.Node) string {
	if nameChild := ast.Child(p, "name"); nameChild != nil {
		return variableName(nameChild)
	}
	return strings.TrimPrefix(p.Text(), "$")
}

func captureName(u ast.Node) string {
	return variableName(u)
}
