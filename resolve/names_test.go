package resolve

import (
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
)

func TestDefinedFqnClass(t *testing.T) {
	node := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	f, ok := DefinedFqn(node)
	if !ok || f.String() != `App\Foo` {
		t.Errorf("DefinedFqn(class) = (%v, %v), want (App\\Foo, true)", f, ok)
	}
}

func TestDefinedFqnFunction(t *testing.T) {
	node := &fixture.Node{KindValue: ast.FunctionDeclaration, ResolvedValue: `App\helper`}
	f, ok := DefinedFqn(node)
	if !ok || f.String() != `App\helper()` {
		t.Errorf("DefinedFqn(function) = (%v, %v), want (App\\helper(), true)", f, ok)
	}
}

func TestDefinedFqnInstanceMethod(t *testing.T) {
	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	method := &fixture.Node{KindValue: ast.MethodDeclaration}
	name := &fixture.Node{TextValue: "bar"}
	method.SetRole("name", name)
	class.AddChild(method)

	f, ok := DefinedFqn(method)
	if !ok || f.String() != `App\Foo->bar()` {
		t.Errorf("DefinedFqn(instance method) = (%v, %v), want (App\\Foo->bar(), true)", f, ok)
	}
}

func TestDefinedFqnStaticMethod(t *testing.T) {
	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	method := &fixture.Node{KindValue: ast.MethodDeclaration}
	name := &fixture.Node{TextValue: "bar"}
	method.SetRole("name", name)
	method.SetRole("static", &fixture.Node{})
	class.AddChild(method)

	f, ok := DefinedFqn(method)
	if !ok || f.String() != `App\Foo::bar()` {
		t.Errorf("DefinedFqn(static method) = (%v, %v), want (App\\Foo::bar(), true)", f, ok)
	}
}

func TestDefinedFqnClassConst(t *testing.T) {
	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`}
	decl := &fixture.Node{KindValue: ast.ClassConstDeclaration}
	elem := &fixture.Node{KindValue: ast.ConstElement}
	name := &fixture.Node{TextValue: "BAR"}
	elem.SetRole("name", name)
	decl.AddChild(elem)
	class.AddChild(decl)

	f, ok := DefinedFqn(elem)
	if !ok || f.String() != `App\Foo::BAR` {
		t.Errorf("DefinedFqn(class const) = (%v, %v), want (App\\Foo::BAR, true)", f, ok)
	}
}

func TestIsStaticMemberMethod(t *testing.T) {
	static := &fixture.Node{KindValue: ast.MethodDeclaration}
	static.SetRole("static", &fixture.Node{})
	if !IsStaticMember(static) {
		t.Error("IsStaticMember(static method) = false, want true")
	}

	instance := &fixture.Node{KindValue: ast.MethodDeclaration}
	if IsStaticMember(instance) {
		t.Error("IsStaticMember(instance method) = true, want false")
	}
}

func TestIsStaticMemberProperty(t *testing.T) {
	decl := &fixture.Node{KindValue: ast.PropertyDeclaration}
	decl.SetRole("static", &fixture.Node{})
	elem := &fixture.Node{KindValue: ast.PropertyElement}
	decl.AddChild(elem)

	if !IsStaticMember(elem) {
		t.Error("IsStaticMember(static property element) = false, want true")
	}

	instanceDecl := &fixture.Node{KindValue: ast.PropertyDeclaration}
	instanceElem := &fixture.Node{KindValue: ast.PropertyElement}
	instanceDecl.AddChild(instanceElem)
	if IsStaticMember(instanceElem) {
		t.Error("IsStaticMember(instance property element) = true, want false")
	}
}

func TestIsStaticMemberClassConstIsNeverStatic(t *testing.T) {
	decl := &fixture.Node{KindValue: ast.ClassConstDeclaration}
	elem := &fixture.Node{KindValue: ast.ConstElement}
	decl.AddChild(elem)

	if IsStaticMember(elem) {
		t.Error("IsStaticMember(class const) = true, want false: a constant has no static-vs-instance dispatch")
	}
}

func TestDefinedFqnNotADeclaration(t *testing.T) {
	node := &fixture.Node{KindValue: ast.Variable}
	if _, ok := DefinedFqn(node); ok {
		t.Error("DefinedFqn on a non-declaration node should report false")
	}
}

func TestDefinedFqnAnonymousClassHasNoMethodFqn(t *testing.T) {
	class := &fixture.Node{KindValue: ast.ClassDeclaration} // anonymous: no resolved name, no text
	method := &fixture.Node{KindValue: ast.MethodDeclaration}
	method.SetRole("name", &fixture.Node{TextValue: "bar"})
	class.AddChild(method)
	if _, ok := DefinedFqn(method); ok {
		t.Error("a method inside an anonymous class should not resolve a FQN")
	}
}
