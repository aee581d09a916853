package indexer

import (
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/index"
	"github.com/roblourens/php-language-server/resolve"
)

// buildFixture constructs: function foo() { bar(); }
func buildFixture() *fixture.Node {
	callee := &fixture.Node{KindValue: ast.QualifiedName, TextValue: "bar", ResolvedValue: "bar"}
	call := &fixture.Node{KindValue: ast.CallExpression, TextValue: "bar()"}
	call.SetRole("callee", callee)
	call.AddChild(callee)

	exprStmt := &fixture.Node{KindValue: ast.ExpressionStatement, TextValue: "bar();"}
	exprStmt.SetRole("expression", call)
	exprStmt.AddChild(call)

	fn := &fixture.Node{KindValue: ast.FunctionDeclaration, TextValue: "function foo() { bar(); }", ResolvedValue: "foo"}
	fn.AddChild(exprStmt)

	root := &fixture.Node{KindValue: ast.NodeUnknown, TextValue: ""}
	root.AddChild(fn)

	var nextID uint64 = 1
	fixture.Link(root, &nextID)
	for _, n := range []*fixture.Node{root, fn, exprStmt, call, callee} {
		n.URIValue = "file:///test.php"
	}
	return root
}

func TestIndexDocumentRecordsDefinitionsAndReferences(t *testing.T) {
	root := buildFixture()
	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := NewSession()

	stats := IndexDocument(idx, rc, sess, "file:///test.php", root, false)

	if stats.DefinitionsIndexed != 1 {
		t.Errorf("DefinitionsIndexed = %d, want 1", stats.DefinitionsIndexed)
	}
	if stats.ReferencesIndexed != 1 {
		t.Errorf("ReferencesIndexed = %d, want 1", stats.ReferencesIndexed)
	}

	if _, ok := idx.GetDefinition(fqn.Function("foo"), false); !ok {
		t.Error("expected foo() to be indexed")
	}
	locs := idx.References(fqn.Function("bar"))
	if len(locs) != 1 {
		t.Errorf("expected 1 reference to bar(), got %d", len(locs))
	}
}

func TestIndexDocumentIsIdempotent(t *testing.T) {
	root := buildFixture()
	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := NewSession()

	first := IndexDocument(idx, rc, sess, "file:///test.php", root, false)
	second := IndexDocument(idx, rc, sess, "file:///test.php", root, false)

	if first.DefinitionsIndexed != second.DefinitionsIndexed {
		t.Errorf("definitions changed across re-index: %d vs %d", first.DefinitionsIndexed, second.DefinitionsIndexed)
	}
	if first.ReferencesIndexed != second.ReferencesIndexed {
		t.Errorf("references changed across re-index: %d vs %d", first.ReferencesIndexed, second.ReferencesIndexed)
	}
	if locs := idx.References(fqn.Function("bar")); len(locs) != 1 {
		t.Errorf("expected exactly 1 reference after re-index, got %d", len(locs))
	}
}

func TestIndexDocumentDependency(t *testing.T) {
	root := buildFixture()
	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := NewSession()

	IndexDocument(idx, rc, sess, "file:///vendor/test.php", root, true)

	if _, ok := idx.GetDefinition(fqn.Function("foo"), false); !ok {
		t.Error("expected dependency definition to be visible through GetDefinition")
	}
}

// buildClassConstFixture constructs: class Foo { const BAR = 1; }
func buildClassConstFixture() *fixture.Node {
	name := &fixture.Node{TextValue: "BAR"}
	elem := &fixture.Node{KindValue: ast.ConstElement, TextValue: "BAR = 1"}
	elem.SetRole("name", name)
	decl := &fixture.Node{KindValue: ast.ClassConstDeclaration, TextValue: "const BAR = 1;"}
	decl.AddChild(elem)

	class := &fixture.Node{KindValue: ast.ClassDeclaration, TextValue: "class Foo { const BAR = 1; }", ResolvedValue: "Foo"}
	class.AddChild(decl)

	root := &fixture.Node{KindValue: ast.NodeUnknown}
	root.AddChild(class)

	var nextID uint64 = 1
	fixture.Link(root, &nextID)
	for _, n := range []*fixture.Node{root, class, decl, elem, name} {
		n.URIValue = "file:///const.php"
	}
	return root
}

func TestIndexDocumentClassConstIsNotMarkedStatic(t *testing.T) {
	root := buildClassConstFixture()
	idx := index.NewProjectIndex()
	rc := &resolve.Context{Index: idx}
	sess := NewSession()

	IndexDocument(idx, rc, sess, "file:///const.php", root, false)

	def, ok := idx.GetDefinition(fqn.ClassConst(fqn.Name("Foo"), "BAR"), false)
	if !ok {
		t.Fatal("expected Foo::BAR to be indexed")
	}
	if def.IsStatic {
		t.Error("a class constant should never be marked IsStatic")
	}
}
