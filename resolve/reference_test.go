package resolve

import (
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
	"github.com/roblourens/php-language-server/definition"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/index"
)

func TestReferenceToFqnThis(t *testing.T) {
	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	this := &fixture.Node{KindValue: ast.Variable, NameValue: "this"}
	class.AddChild(this)

	rc := &Context{Index: index.NewProjectIndex()}
	f, ok := ReferenceToFqn(rc, this)
	if !ok || f.String() != `App\Foo` {
		t.Errorf("ReferenceToFqn($this) = (%v, %v), want (App\\Foo, true)", f, ok)
	}
}

func TestReferenceToFqnFunctionCall(t *testing.T) {
	call := &fixture.Node{KindValue: ast.CallExpression}
	callee := &fixture.Node{KindValue: ast.QualifiedName, ResolvedValue: `App\helper`}
	call.SetRole("callee", callee)
	call.AddChild(callee)

	rc := &Context{Index: index.NewProjectIndex()}
	f, ok := ReferenceToFqn(rc, call)
	if !ok || f.String() != `App\helper()` {
		t.Errorf("ReferenceToFqn(call) = (%v, %v), want (App\\helper(), true)", f, ok)
	}
}

func TestReferenceToFqnConstantFetch(t *testing.T) {
	stmt := &fixture.Node{}
	name := &fixture.Node{KindValue: ast.QualifiedName, ResolvedValue: `App\MY_CONST`}
	stmt.AddChild(name)

	rc := &Context{Index: index.NewProjectIndex()}
	f, ok := ReferenceToFqn(rc, name)
	if !ok || f.String() != `App\MY_CONST` {
		t.Errorf("ReferenceToFqn(constant) = (%v, %v), want (App\\MY_CONST, true)", f, ok)
	}
}

func TestReferenceToFqnMemberAccessViaIndex(t *testing.T) {
	idx := index.NewProjectIndex()
	idx.SetDefinition(fqn.InstanceProperty(fqn.Name(`App\Foo`), "bar"), definition.Definition{
		Fqn: fqn.InstanceProperty(fqn.Name(`App\Foo`), "bar"),
	})
	rc := &Context{Index: idx}

	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	access := &fixture.Node{KindValue: ast.MemberAccessExpression}
	this := &fixture.Node{KindValue: ast.Variable, NameValue: "this"}
	member := &fixture.Node{TextValue: "bar"}
	access.SetRole("object", this)
	access.SetRole("member", member)
	class.AddChild(access)
	access.AddChild(this)

	f, ok := ReferenceToFqn(rc, access)
	if !ok || f.String() != `App\Foo->bar` {
		t.Errorf("ReferenceToFqn(member access) = (%v, %v), want (App\\Foo->bar, true)", f, ok)
	}
}

func TestReferenceToFqnNil(t *testing.T) {
	rc := &Context{Index: index.NewProjectIndex()}
	if _, ok := ReferenceToFqn(rc, nil); ok {
		t.Error("ReferenceToFqn(nil) should report false")
	}
}
