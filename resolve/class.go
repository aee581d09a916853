package resolve

import (
	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/symtype"
)

// EnclosingClassFqn walks node's ancestors for the nearest class, interface,
// or trait declaration and returns its namespaced name. It returns
// ("", false) if node is anonymous or has no such ancestor.
func EnclosingClassFqn(node ast.Node) (fqn.FQN, bool) {
	classNode := ast.EnclosingClass(node)
	if classNode == nil {
		return "", false
	}
	name := classNode.ResolvedName()
	if name == "" {
		name = classNode.Text()
	}
	if name == "" {
		return "", false
	}
	return fqn.Name(name), true
}

// ClassNameType resolves a class-name-shaped node (the target of `new`,
// `instanceof`, a type hint, or a scoped-access qualifier) to a symbolic
// type, per §4.7: static/self keywords resolve relative to the enclosing
// class, parent resolves to the enclosing class's single extends target
// (via the index, the same way the scoped-access reference resolver
// does), a dynamic qualifier expression is Mixed, an anonymous class
// token is an anonymous Object, and anything else is an Object bound to
// the resolved name.
func ClassNameType(rc *Context, node ast.Node) symtype.Type {
	if node == nil {
		return symtype.NewMixed()
	}
	text := node.Text()
	switch text {
	case "static":
		return symtype.NewStatic()
	case "self":
		if cls, ok := EnclosingClassFqn(node); ok {
			return symtype.NewObject(cls)
		}
		return symtype.NewAnonymousObject()
	case "parent":
		cls, ok := parentClassFqn(rc, node)
		if !ok {
			return symtype.NewAnonymousObject()
		}
		return symtype.NewObject(cls)
	}
	if node.Kind() != ast.QualifiedName {
		// A dynamic expression qualifier (e.g. `new $className(...)`):
		// the class being named can't be determined statically.
		return symtype.NewMixed()
	}
	if isAnonymousClassToken(node) {
		return symtype.NewAnonymousObject()
	}
	name := node.ResolvedName()
	if name == "" {
		name = node.Text()
	}
	if name == "" {
		return symtype.NewMixed()
	}
	return symtype.NewObject(fqn.Name(name))
}

// isAnonymousClassToken reports whether node names PHP's `class` keyword
// used in an anonymous class expression (`new class { ... }`), which a
// parser surfaces as a QualifiedName-shaped node with no resolvable name.
func isAnonymousClassToken(node ast.Node) bool {
	return node.Text() == "class" && node.ResolvedName() == ""
}

// classFqnFromTypeComponent computes the class a single type component
// dispatches against, for use at an access node: This/Static/Self resolve
// to the enclosing class, Object resolves to its own FQSEN, and every
// other kind (it carries no class identity) reports false.
func classFqnFromTypeComponent(accessNode ast.Node, comp symtype.Type) (fqn.FQN, bool) {
	switch comp.Kind() {
	case symtype.ThisKind, symtype.StaticKind, symtype.SelfKind:
		return EnclosingClassFqn(accessNode)
	case symtype.ObjectKind:
		return comp.FQSEN()
	default:
		return "", false
	}
}

// parentClassFqn resolves the `parent` keyword at node to the single
// class the enclosing class extends, by consulting the index rather than
// the AST (the enclosing declaration's `extends` clause is recorded on
// its Definition, not re-derived from syntax here).
func parentClassFqn(rc *Context, node ast.Node) (fqn.FQN, bool) {
	enclosing, ok := EnclosingClassFqn(node)
	if !ok {
		return "", false
	}
	idx := rc.index()
	if idx == nil {
		return "", false
	}
	def, ok := idx.GetDefinition(enclosing, false)
	if !ok || len(def.Extends) == 0 {
		return "", false
	}
	return def.Extends[0], true
}
