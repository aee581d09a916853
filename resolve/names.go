package resolve

import (
	"strings"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/fqn"
)

// DefinedFqn computes the FQN a declaration node introduces, per the
// fixed kind-to-shape mapping in §4.9. It returns ("", false) for any
// node that does not introduce a symbol, including a method or
// class-const element declared inside an anonymous class.
func DefinedFqn(node ast.Node) (fqn.FQN, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case ast.ClassDeclaration, ast.InterfaceDeclaration, ast.TraitDeclaration:
		return namespacedName(node)

	case ast.NamespaceDefinition:
		return namespacedName(node)

	case ast.FunctionDeclaration:
		name, ok := namespacedName(node)
		if !ok {
			return "", false
		}
		return fqn.Function(name.String()), true

	case ast.MethodDeclaration:
		return definedMethodFqn(node)

	case ast.PropertyElement:
		return definedPropertyFqn(node)

	case ast.ConstElement:
		return definedConstElementFqn(node)

	default:
		return "", false
	}
}

// namespacedName returns a node's parser-resolved name, falling back to
// its raw text, as an FQN. It returns ("", false) when neither is
// available (an anonymous declaration).
func namespacedName(node ast.Node) (fqn.FQN, bool) {
	name := node.ResolvedName()
	if name == "" {
		name = node.Text()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return fqn.Name(name), true
}

func definedMethodFqn(node ast.Node) (fqn.FQN, bool) {
	cls, ok := EnclosingClassFqn(node)
	if !ok {
		return "", false
	}
	name := ast.Child(node, "name")
	methodName := ""
	if name != nil {
		methodName = name.Text()
	} else {
		methodName = node.Text()
	}
	if methodName == "" {
		return "", false
	}
	if isStaticDeclaration(node) {
		return fqn.StaticMethod(cls, methodName), true
	}
	return fqn.InstanceMethod(cls, methodName), true
}

func definedPropertyFqn(node ast.Node) (fqn.FQN, bool) {
	cls, ok := EnclosingClassFqn(node)
	if !ok {
		return "", false
	}
	propName := propertyElementName(node)
	if propName == "" {
		return "", false
	}
	decl := ast.Ancestor(node, ast.PropertyDeclaration)
	static := decl != nil && isStaticDeclaration(decl)
	if static {
		return fqn.StaticProperty(cls, propName), true
	}
	return fqn.InstanceProperty(cls, propName), true
}

func definedConstElementFqn(node ast.Node) (fqn.FQN, bool) {
	constName := constElementName(node)
	if constName == "" {
		return "", false
	}
	if decl := ast.Ancestor(node, ast.ClassConstDeclaration); decl != nil {
		cls, ok := EnclosingClassFqn(node)
		if !ok {
			return "", false
		}
		return fqn.ClassConst(cls, constName), true
	}
	// Top-level const element: namespaced name.
	ns := ""
	if nsNode := ast.Ancestor(node, ast.NamespaceDefinition); nsNode != nil {
		ns = nsNode.ResolvedName()
		if ns == "" {
			ns = nsNode.Text()
		}
	}
	if ns != "" {
		return fqn.Name(ns + "\\" + constName), true
	}
	return fqn.Name(constName), true
}

// propertyElementName reads a property element's bare name, stripping a
// leading "$" if the node's text includes the sigil.
func propertyElementName(node ast.Node) string {
	nameChild := ast.Child(node, "name")
	if nn, ok := nameChild.(ast.NameNode); ok {
		return nn.Name()
	}
	if nameChild != nil {
		return strings.TrimPrefix(nameChild.Text(), "$")
	}
	return strings.TrimPrefix(node.Text(), "$")
}

func constElementName(node ast.Node) string {
	nameChild := ast.Child(node, "name")
	if nameChild != nil {
		return nameChild.Text()
	}
	return node.Text()
}

// isStaticDeclaration reports whether a method or property declaration
// node has the `static` modifier, surfaced by the parser as a typed
// "static" child role per the AST contract's modifier exposure.
func isStaticDeclaration(node ast.Node) bool {
	return ast.Child(node, "static") != nil
}

// IsStaticMember reports whether node (a MethodDeclaration or
// PropertyElement) carries the `static` modifier. It returns false for
// every other kind, including ConstElement: a class constant is always
// reached through "::" but carries no static-vs-instance dispatch choice,
// so the modifier concept doesn't apply to it.
func IsStaticMember(node ast.Node) bool {
	switch node.Kind() {
	case ast.MethodDeclaration:
		return isStaticDeclaration(node)
	case ast.PropertyElement:
		decl := ast.Ancestor(node, ast.PropertyDeclaration)
		return decl != nil && isStaticDeclaration(decl)
	default:
		return false
	}
}
