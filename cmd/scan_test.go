package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
	"github.com/roblourens/php-language-server/queryfilter"
)

func unresolvedMemberAccessTree(uri string) *fixture.Node {
	object := &fixture.Node{KindValue: ast.Variable, NameValue: "x"}
	member := &fixture.Node{KindValue: ast.QualifiedName, TextValue: "prop"}
	access := &fixture.Node{KindValue: ast.MemberAccessExpression}
	access.AddChild(object)
	access.AddChild(member)
	access.SetRole("object", object)
	access.SetRole("member", member)
	linkAndStampURI(access, uri)
	return access
}

func TestRunScanNoParser(t *testing.T) {
	ActiveParser = nil
	if _, err := runScan(t.TempDir(), nil); err != errNoParser {
		t.Errorf("runScan with no parser = %v, want errNoParser", err)
	}
}

func TestRunScanFindsUnresolvedReference(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", `<?php $x->prop;`)
	uri := "file://" + path
	access := unresolvedMemberAccessTree(uri)

	trees := uriTree{uri: access}
	SetParser(trees.parse)
	defer SetParser(nil)

	scanFormat = "table"
	out := captureOutput(func() {
		count, err := runScan(filepath.Dir(path), nil)
		if err != nil {
			t.Fatalf("runScan: %v", err)
		}
		if count != 1 {
			t.Errorf("runScan count = %d, want 1", count)
		}
	})
	if !strings.Contains(out, "unresolved-reference") {
		t.Errorf("runScan table output = %q, want it to mention unresolved-reference", out)
	}
}

func TestRunScanSarifFormat(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", `<?php $x->prop;`)
	uri := "file://" + path
	access := unresolvedMemberAccessTree(uri)

	trees := uriTree{uri: access}
	SetParser(trees.parse)
	defer SetParser(nil)

	scanFormat = "sarif"
	defer func() { scanFormat = "table" }()

	out := captureOutput(func() {
		_, err := runScan(filepath.Dir(path), nil)
		if err != nil {
			t.Fatalf("runScan: %v", err)
		}
	})
	if !strings.Contains(out, `"ruleId"`) {
		t.Errorf("runScan sarif output = %q, want a SARIF result with a ruleId", out)
	}
}

func TestRunScanFilterExcludesEverything(t *testing.T) {
	path := writeTempPhpFile(t, "a.php", `<?php $x->prop;`)
	uri := "file://" + path
	access := unresolvedMemberAccessTree(uri)

	trees := uriTree{uri: access}
	SetParser(trees.parse)
	defer SetParser(nil)

	filter, err := queryfilter.Compile("false")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	scanFormat = "table"
	out := captureOutput(func() {
		count, err := runScan(filepath.Dir(path), filter)
		if err != nil {
			t.Fatalf("runScan: %v", err)
		}
		if count != 0 {
			t.Errorf("runScan with an always-false filter count = %d, want 0", count)
		}
	})
	if !strings.Contains(out, "no unresolved") {
		t.Errorf("runScan output = %q, want the no-findings message", out)
	}
}
