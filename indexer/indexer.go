// Package indexer drives one document's AST through the resolver to
// populate an index's definitions and references (§4.10).
package indexer

import (
	"time"

	"github.com/google/uuid"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/definition"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/resolve"
)

// Stats reports the outcome of one IndexDocument pass.
type Stats struct {
	DefinitionsIndexed int
	ReferencesIndexed  int
	Elapsed            time.Duration
	// Revision is the session revision this pass was stamped with (0 if
	// sess was nil). A resolvecache.CachedResolver keyed to this value
	// caches results that stay valid until the next pass over this uri
	// bumps the revision again.
	Revision uint64
}

// Session stamps a monotonically increasing revision onto every pass it
// performs, tagged with a session identifier, per §3's document-revision
// concept. The zero value is ready to use.
type Session struct {
	id       uuid.UUID
	revision uint64
}

// NewSession returns a Session with a fresh random identifier.
func NewSession() *Session {
	return &Session{id: uuid.New()}
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Revision returns the most recently stamped revision, or 0 if the
// session has not indexed anything yet.
func (s *Session) Revision() uint64 { return s.revision }

// nextRevision advances and returns the session's revision counter.
func (s *Session) nextRevision() uint64 {
	s.revision++
	return s.revision
}

// IndexDocument implements the document indexer (§4.10): invalidates any
// prior pass over uri, then walks root's tree once, recording every
// definition C6/C9 can build and every reference C7 can resolve.
// isDependency routes definitions into the index's dependencies map
// instead of its project map.
func IndexDocument(idx *index.ProjectIndex, rc *resolve.Context, sess *Session, uri string, root ast.Node, isDependency bool) Stats {
	start := time.Now()
	idx.RemoveDefinitionsForURI(uri)
	idx.RemoveReferencesForURI(uri)

	stats := Stats{}
	if sess != nil {
		stats.Revision = sess.nextRevision()
	}
	walk(root, func(node ast.Node) {
		if f, ok := resolve.DefinedFqn(node); ok {
			def := buildDefinition(rc, f, node)
			if isDependency {
				idx.SetDependencyDefinition(f, def)
			} else {
				idx.SetDefinition(f, def)
			}
			stats.DefinitionsIndexed++
		}
		// A CallExpression's own ReferenceToFqn result is always the same
		// FQN its callee resolves to on its own (the callee case computes
		// the call suffix itself via isCallTarget); visiting both would
		// double-record one reference.
		if node.Kind() != ast.CallExpression {
			if f, ok := resolve.ReferenceToFqn(rc, node); ok {
				idx.AddReference(f, definition.Location{URI: uri, Line: lineOf(node)})
				stats.ReferencesIndexed++
			}
		}
	})

	stats.Elapsed = time.Since(start)
	return stats
}

// walk visits node and every descendant, pre-order.
func walk(node ast.Node, visit func(ast.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for _, c := range node.Children() {
		walk(c, visit)
	}
}

// lineOf returns node's byte start offset, which a Location records in its
// Line field: the Node contract exposes only a byte offset within the
// document, not line tables, so callers that need a line number recompute
// it from the document's full text and this offset.
func lineOf(node ast.Node) int {
	return node.StartOffset()
}

// buildDefinition assembles the Definition a defining node produces: its
// kind, its declared type (when resolve.TypeFromNode knows one), its
// extends list (classes/interfaces only), its declaration line, and its
// raw doc-comment text (delimiters included; no summary is extracted).
func buildDefinition(rc *resolve.Context, f fqn.FQN, node ast.Node) definition.Definition {
	isClass := ast.KindIn(node.Kind(), ast.ClassDeclaration, ast.InterfaceDeclaration, ast.TraitDeclaration)
	t, _ := resolve.TypeFromNode(rc, node)
	def := definition.Definition{
		Fqn:             f,
		IsClass:         isClass,
		IsGlobal:        ast.Ancestor(node, ast.NamespaceDefinition) == nil,
		IsStatic:        resolve.IsStaticMember(node),
		Type:            t,
		DeclarationLine: resolve.DeclarationLine(node),
		Documentation:   node.DocComment(),
		SymbolInfo: definition.SymbolInformation{
			Name: node.Text(),
			Kind: symbolKind(node),
			Location: &definition.Location{
				URI:  node.URI(),
				Line: lineOf(node),
			},
		},
	}
	if isClass {
		def.Extends = extendsOf(node)
	}
	return def
}

// extendsOf reads a class/interface declaration's `extends` typed child,
// which a parser exposes as a single name node for a class (single
// inheritance) or a list for an interface (multiple extension).
func extendsOf(node ast.Node) []fqn.FQN {
	extends := ast.Child(node, "extends")
	if extends == nil {
		return nil
	}
	if extends.Kind() == ast.QualifiedName {
		return []fqn.FQN{nameOf(extends)}
	}
	var out []fqn.FQN
	for _, c := range extends.Children() {
		out = append(out, nameOf(c))
	}
	return out
}

func nameOf(node ast.Node) fqn.FQN {
	name := node.ResolvedName()
	if name == "" {
		name = node.Text()
	}
	return fqn.Name(name)
}

func symbolKind(node ast.Node) definition.SymbolKind {
	switch node.Kind() {
	case ast.ClassDeclaration:
		return definition.SymbolClass
	case ast.InterfaceDeclaration:
		return definition.SymbolInterface
	case ast.TraitDeclaration:
		return definition.SymbolTrait
	case ast.NamespaceDefinition:
		return definition.SymbolNamespace
	case ast.FunctionDeclaration:
		return definition.SymbolFunction
	case ast.MethodDeclaration:
		return definition.SymbolMethod
	case ast.PropertyElement:
		return definition.SymbolProperty
	case ast.ConstElement:
		if ast.Ancestor(node, ast.ClassConstDeclaration) != nil {
			return definition.SymbolClassConstant
		}
		return definition.SymbolConstant
	default:
		return definition.SymbolUnknown
	}
}
