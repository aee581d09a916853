package index

import (
	"testing"

	"github.com/roblourens/php-language-server/definition"
	"github.com/roblourens/php-language-server/fqn"
)

func TestSetAndGetDefinition(t *testing.T) {
	idx := NewProjectIndex()
	def := definition.Definition{Fqn: fqn.Name("App\\Foo")}
	idx.SetDefinition(fqn.Name("App\\Foo"), def)

	got, ok := idx.GetDefinition(fqn.Name("App\\Foo"), false)
	if !ok || got.Fqn != def.Fqn {
		t.Errorf("GetDefinition = (%v, %v), want (%v, true)", got, ok, def)
	}
}

func TestProjectShadowsDependency(t *testing.T) {
	idx := NewProjectIndex()
	idx.SetDependencyDefinition(fqn.Name("App\\Foo"), definition.Definition{IsGlobal: true})
	idx.SetDefinition(fqn.Name("App\\Foo"), definition.Definition{IsGlobal: false})

	got, ok := idx.GetDefinition(fqn.Name("App\\Foo"), false)
	if !ok || got.IsGlobal {
		t.Errorf("project entry should shadow dependency entry, got %+v", got)
	}
}

func TestGlobalFallbackForFunctionCall(t *testing.T) {
	idx := NewProjectIndex()
	idx.SetDefinition(fqn.Function("strlen"), definition.Definition{Fqn: fqn.Function("strlen")})

	got, ok := idx.GetDefinition(fqn.Function("App\\Sub\\strlen"), true)
	if !ok || got.Fqn != fqn.Function("strlen") {
		t.Errorf("global fallback lookup = (%v, %v), want (strlen(), true)", got, ok)
	}

	if _, ok := idx.GetDefinition(fqn.Function("App\\Sub\\strlen"), false); ok {
		t.Error("lookup without globalFallback should not retry the last segment")
	}
}

func TestGlobalFallbackIneligibleForMembers(t *testing.T) {
	idx := NewProjectIndex()
	idx.SetDefinition(fqn.InstanceMethod(fqn.Name("Bar"), "baz"), definition.Definition{})

	if _, ok := idx.GetDefinition(fqn.InstanceMethod(fqn.Name("App\\Bar"), "baz"), true); ok {
		t.Error("global fallback should not apply to member-access FQNs")
	}
}

func TestRemoveDefinitionsForURI(t *testing.T) {
	idx := NewProjectIndex()
	def := definition.Definition{
		Fqn: fqn.Name("App\\Foo"),
		SymbolInfo: definition.SymbolInformation{
			Location: &definition.Location{URI: "file:///a.php", Line: 1},
		},
	}
	idx.SetDefinition(fqn.Name("App\\Foo"), def)

	idx.RemoveDefinitionsForURI("file:///a.php")

	if _, ok := idx.GetDefinition(fqn.Name("App\\Foo"), false); ok {
		t.Error("expected definition to be removed along with its owning URI")
	}
}

func TestRemoveDefinitionsForURILeavesOtherURIsAlone(t *testing.T) {
	idx := NewProjectIndex()
	idx.SetDefinition(fqn.Name("App\\A"), definition.Definition{
		SymbolInfo: definition.SymbolInformation{Location: &definition.Location{URI: "file:///a.php"}},
	})
	idx.SetDefinition(fqn.Name("App\\B"), definition.Definition{
		SymbolInfo: definition.SymbolInformation{Location: &definition.Location{URI: "file:///b.php"}},
	})

	idx.RemoveDefinitionsForURI("file:///a.php")

	if _, ok := idx.GetDefinition(fqn.Name("App\\B"), false); !ok {
		t.Error("removing one URI's definitions should not affect another URI's")
	}
}

func TestAddAndGetReferences(t *testing.T) {
	idx := NewProjectIndex()
	f := fqn.Function("App\\foo")
	idx.AddReference(f, definition.Location{URI: "file:///a.php", Line: 1})
	idx.AddReference(f, definition.Location{URI: "file:///b.php", Line: 2})

	locs := idx.References(f)
	if len(locs) != 2 {
		t.Fatalf("References = %v, want 2 entries", locs)
	}
}

func TestRemoveReferencesForURI(t *testing.T) {
	idx := NewProjectIndex()
	f := fqn.Function("App\\foo")
	idx.AddReference(f, definition.Location{URI: "file:///a.php", Line: 1})
	idx.AddReference(f, definition.Location{URI: "file:///b.php", Line: 2})

	idx.RemoveReferencesForURI("file:///a.php")

	locs := idx.References(f)
	if len(locs) != 1 || locs[0].URI != "file:///b.php" {
		t.Errorf("References after removal = %v, want only file:///b.php entry", locs)
	}
}

func TestReferencesReturnsCopy(t *testing.T) {
	idx := NewProjectIndex()
	f := fqn.Function("App\\foo")
	idx.AddReference(f, definition.Location{URI: "file:///a.php", Line: 1})

	locs := idx.References(f)
	locs[0].Line = 999

	fresh := idx.References(f)
	if fresh[0].Line == 999 {
		t.Error("References should return a defensive copy")
	}
}
