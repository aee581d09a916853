package cmd

import (
	"strings"
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
)

func TestRunDefineNoParser(t *testing.T) {
	ActiveParser = nil
	if _, err := runDefine(t.TempDir()+"/a.php", 0); err != errNoParser {
		t.Errorf("runDefine with no parser = %v, want errNoParser", err)
	}
}

func TestRunDefineResolvesThisToEnclosingClass(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", "<?php class Foo { function bar() { $this; } }")
	uri := "file://" + path

	class := &fixture.Node{KindValue: ast.ClassDeclaration, ResolvedValue: `App\Foo`, Offset: 0, NodeWidth: 50}
	method := &fixture.Node{KindValue: ast.MethodDeclaration, TextValue: "bar", Offset: 5, NodeWidth: 40}
	this := &fixture.Node{KindValue: ast.Variable, NameValue: "this", Offset: 10, NodeWidth: 5}
	class.AddChild(method)
	method.AddChild(this)
	linkAndStampURI(class, uri)

	trees := uriTree{uri: class}
	SetParser(trees.parse)
	defer SetParser(nil)

	out := captureOutput(func() {
		count, err := runDefine(path, 12)
		if err != nil {
			t.Fatalf("runDefine: %v", err)
		}
		if count != 1 {
			t.Errorf("runDefine count = %d, want 1", count)
		}
	})
	if !strings.Contains(out, `App\Foo`) {
		t.Errorf("runDefine output = %q, want it to mention App\\Foo", out)
	}
}

func TestRunDefineUnresolvedReportsCandidate(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", "<?php FOO;")
	uri := "file://" + path

	name := &fixture.Node{KindValue: ast.QualifiedName, TextValue: "FOO", Offset: 0, NodeWidth: 3}
	linkAndStampURI(name, uri)

	trees := uriTree{uri: name}
	SetParser(trees.parse)
	defer SetParser(nil)

	out := captureOutput(func() {
		count, err := runDefine(path, 1)
		if err != nil {
			t.Fatalf("runDefine: %v", err)
		}
		if count != 0 {
			t.Errorf("runDefine count = %d, want 0 (no definition indexed)", count)
		}
	})
	if !strings.Contains(out, "unresolved") || !strings.Contains(out, "FOO") {
		t.Errorf("runDefine output = %q, want an unresolved-with-candidate message", out)
	}
}

func TestRunDefineNodeOutsideSpanReportsUnresolved(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", "<?php\n")
	uri := "file://" + path
	root := &fixture.Node{KindValue: ast.ExpressionStatement, Offset: 0, NodeWidth: 3}
	linkAndStampURI(root, uri)

	trees := uriTree{uri: root}
	SetParser(trees.parse)
	defer SetParser(nil)

	out := captureOutput(func() {
		count, err := runDefine(path, 50)
		if err != nil {
			t.Fatalf("runDefine: %v", err)
		}
		if count != 0 {
			t.Errorf("runDefine count = %d, want 0", count)
		}
	})
	if strings.TrimSpace(out) != "unresolved" {
		t.Errorf("runDefine output = %q, want exactly %q", out, "unresolved")
	}
}
