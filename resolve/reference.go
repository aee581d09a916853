package resolve

import (
	"strings"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/fqn"
)

// excludedConstantFetchParents are the parent shapes that disqualify a
// bare qualified name from being treated as a constant fetch (§4.3 case
// 4): it's instead the callee of a call, the class name of `new`, the
// object in a member access, the qualifier of a scoped access, or the
// signature of an anonymous function.
var excludedConstantFetchParents = []ast.Kind{
	ast.MemberAccessExpression,
	ast.CallExpression,
	ast.ObjectCreationExpression,
	ast.ScopedPropertyAccessExpression,
	ast.AnonymousFunctionCreationExpression,
}

// ReferenceToFqn implements the reference resolver (§4.3): given a node
// that syntactically names a symbol, compute the FQN it targets. It
// returns ("", false) when the reference cannot be resolved right now
// (dynamic dispatch, a dynamic member name, or simply no match).
func ReferenceToFqn(rc *Context, node ast.Node) (fqn.FQN, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case ast.Variable:
		return referenceFromVariable(node)

	case ast.QualifiedName:
		if isConstantFetch(node) {
			return referenceFromConstantFetch(node)
		}
		return referenceFromQualifiedName(node, isCallTarget(node))

	case ast.MemberAccessExpression:
		return referenceFromMemberAccess(rc, node, isCallTarget(node))

	case ast.ScopedPropertyAccessExpression:
		return referenceFromScopedAccess(rc, node, isCallTarget(node))

	case ast.CallExpression:
		return referenceFromCall(rc, node)

	default:
		return "", false
	}
}

// referenceFromVariable implements case 1: $this resolves to the
// enclosing class; every other variable is not globally indexed and so
// has no public FQN (callers use ResolveVariable directly, and
// typeFromExpression does so internally for the `$x` type rule).
func referenceFromVariable(node ast.Node) (fqn.FQN, bool) {
	if variableName(node) == "this" {
		return EnclosingClassFqn(node)
	}
	return "", false
}

// referenceFromCall dispatches a CallExpression to whichever case its
// callee shape matches: a member-access call, a scoped-access call, or a
// plain qualified-name call.
func referenceFromCall(rc *Context, node ast.Node) (fqn.FQN, bool) {
	callee := ast.Child(node, "callee")
	if callee == nil {
		return "", false
	}
	switch callee.Kind() {
	case ast.MemberAccessExpression:
		return referenceFromMemberAccess(rc, callee, true)
	case ast.ScopedPropertyAccessExpression:
		return referenceFromScopedAccess(rc, callee, true)
	case ast.QualifiedName:
		// A bare name in call position is a function call, never a
		// constant fetch, regardless of what isConstantFetch's
		// parent-shape test would say about the callee in isolation.
		return referenceFromQualifiedName(callee, true)
	default:
		return "", false
	}
}

// referenceFromQualifiedName implements case 2: resolve the node's
// parser-computed name (or raw text), honoring an enclosing use-clause's
// group prefix and function-use marker.
func referenceFromQualifiedName(node ast.Node, isCallContext bool) (fqn.FQN, bool) {
	base := node.ResolvedName()
	usesFunction := false
	if base == "" {
		base = node.Text()
		if group := useClauseAncestor(node); group != nil {
			base = groupPrefix(group) + base
			usesFunction = isFunctionUse(group)
		}
	} else if group := useClauseAncestor(node); group != nil {
		usesFunction = isFunctionUse(group)
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return "", false
	}
	if usesFunction || isCallContext {
		return fqn.FQN(base + "()"), true
	}
	return fqn.FQN(base), true
}

func useClauseAncestor(node ast.Node) ast.Node {
	return ast.Ancestor(node, ast.NamespaceUseDeclaration, ast.NamespaceUseGroupClause)
}

// groupPrefix returns the shared namespace prefix of a `use Ns\{A, B};`
// group clause, or "" for a plain (non-grouped) use declaration.
func groupPrefix(group ast.Node) string {
	if group.Kind() != ast.NamespaceUseGroupClause {
		return ""
	}
	if prefix := ast.Child(group, "prefix"); prefix != nil {
		text := prefix.Text()
		if text != "" && !strings.HasSuffix(text, "\\") {
			text += "\\"
		}
		return text
	}
	return ""
}

// isFunctionUse reports whether a use-clause (or its enclosing group
// declaration) imports a function rather than a class or constant.
func isFunctionUse(group ast.Node) bool {
	if ast.Child(group, "function") != nil {
		return true
	}
	if decl := ast.Ancestor(group, ast.NamespaceUseDeclaration); decl != nil {
		return ast.Child(decl, "function") != nil
	}
	return false
}

// isConstantFetch implements case 4's parent-shape test.
func isConstantFetch(node ast.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	if ast.KindIn(parent.Kind(), excludedConstantFetchParents...) {
		return false
	}
	if isInstanceofOperator(parent) {
		return false
	}
	return true
}

func isInstanceofOperator(parent ast.Node) bool {
	if parent.Kind() != ast.BinaryExpression {
		return false
	}
	if op := ast.Child(parent, "operator"); op != nil {
		return strings.EqualFold(op.Text(), "instanceof")
	}
	return false
}

func referenceFromConstantFetch(node ast.Node) (fqn.FQN, bool) {
	name := node.ResolvedName()
	if name == "" {
		name = node.Text()
	}
	if name == "" {
		return "", false
	}
	return fqn.Name(name), true
}

// isCallTarget reports whether node is the callee of its parent
// CallExpression.
func isCallTarget(node ast.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != ast.CallExpression {
		return false
	}
	callee := ast.Child(parent, "callee")
	return callee != nil && callee.ID() == node.ID()
}

// referenceFromMemberAccess implements case 3.
func referenceFromMemberAccess(rc *Context, node ast.Node, isCall bool) (fqn.FQN, bool) {
	object := ast.Child(node, "object")
	member := ast.Child(node, "member")
	if object == nil || member == nil {
		return "", false
	}
	memberName := member.Text()
	classFqn, ok := classFqnForAccessTarget(rc, node, object)
	if !ok {
		return "", false
	}
	return resolveMemberChain(rc, classFqn, memberName, isCall, false), true
}

// classFqnForAccessTarget computes the class an instance member access
// dispatches against, per §4.3 case 3: infer the left-hand expression's
// type, and for a compound type pick the first component that is
// This | Object | Static | Self.
func classFqnForAccessTarget(rc *Context, accessNode, object ast.Node) (fqn.FQN, bool) {
	lhsType := TypeFromExpression(rc, object)
	for _, comp := range lhsType.Components() {
		if cls, ok := classFqnFromTypeComponent(accessNode, comp); ok {
			return cls, true
		}
	}
	return "", false
}

// referenceFromScopedAccess implements case 5.
func referenceFromScopedAccess(rc *Context, node ast.Node, isCall bool) (fqn.FQN, bool) {
	qualifier := ast.Child(node, "qualifier")
	member := ast.Child(node, "member")
	if qualifier == nil || member == nil {
		return "", false
	}
	classFqn, ok := resolveScopeQualifier(rc, node, qualifier)
	if !ok {
		return "", false
	}
	isVariableMember := member.Kind() == ast.Variable
	memberName := member.Text()
	if isVariableMember {
		memberName = variableName(member)
	}
	return resolveMemberChain(rc, classFqn, memberName, isCall, isVariableMember), true
}

func resolveScopeQualifier(rc *Context, node, qualifier ast.Node) (fqn.FQN, bool) {
	switch qualifier.Text() {
	case "self", "static":
		return EnclosingClassFqn(node)
	case "parent":
		return parentClassFqn(rc, node)
	}
	if qualifier.Kind() != ast.QualifiedName {
		// A dynamic qualifier expression (e.g. `$cls::m()`).
		return "", false
	}
	name := qualifier.ResolvedName()
	if name == "" {
		name = qualifier.Text()
	}
	if name == "" {
		return "", false
	}
	return fqn.Name(name), true
}

// resolveMemberChain builds the candidate FQN for memberName on
// startClass and, if it isn't in the index yet, walks the inheritance
// chain (repeatedly querying the index and chasing `extends`) looking
// for a hit. At each class it tries both dispatch separators when the
// member is call-shaped, since PHP allows invoking a non-static method
// through `::` syntax (see scenario 4 in the module's testable
// properties) — a plain property or constant access only ever has one
// valid shape, so no separator fallback applies there. If no hit is
// found anywhere in the chain, the initial candidate against startClass
// is returned so a later index update can fill it in.
func resolveMemberChain(rc *Context, startClass fqn.FQN, memberName string, isCall, isStaticMemberForm bool) fqn.FQN {
	primarySep, altSep := "->", "::"
	if isStaticMemberForm {
		primarySep, altSep = "::$", ""
	}
	candidate := buildMemberFqn(startClass, memberName, isCall, primarySep)
	idx := rc.index()
	if idx == nil {
		return candidate
	}
	classFqn := startClass
	seen := map[fqn.FQN]bool{}
	for !seen[classFqn] {
		seen[classFqn] = true
		if def, ok := idx.GetDefinition(buildMemberFqn(classFqn, memberName, isCall, primarySep), false); ok {
			return def.Fqn
		}
		if altSep != "" {
			if def, ok := idx.GetDefinition(buildMemberFqn(classFqn, memberName, isCall, altSep), false); ok {
				return def.Fqn
			}
		}
		parent, ok := idx.GetDefinition(classFqn, false)
		if !ok || len(parent.Extends) == 0 {
			break
		}
		classFqn = parent.Extends[0]
	}
	return candidate
}

func buildMemberFqn(classFqn fqn.FQN, memberName string, isCall bool, sep string) fqn.FQN {
	suffix := ""
	if isCall {
		suffix = "()"
	}
	return fqn.FQN(classFqn.String() + sep + memberName + suffix)
}
