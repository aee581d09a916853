package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/ast/fixture"
	"github.com/roblourens/php-language-server/output"
)

// captureOutput runs f with os.Stdout redirected and returns what it wrote.
func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	out, _ := io.ReadAll(r)
	os.Stdout = oldStdout
	return string(out)
}

// writeTempPhpFile creates a single .php file under a fresh temp directory
// and returns its path. Contents are never parsed by the fixture-backed
// test parsers below; they exist only so the directory walk finds a file.
func writeTempPhpFile(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// uriTree maps a document URI to the root of a hand-built fixture tree,
// used to stand in for a real parser in tests (see cmd.DocumentParser).
type uriTree map[string]*fixture.Node

func (trees uriTree) parse(uri string, _ []byte) (ast.Node, error) {
	root, ok := trees[uri]
	if !ok {
		return nil, os.ErrNotExist
	}
	return root, nil
}

func linkAndStampURI(root *fixture.Node, uri string) {
	var nextID uint64
	fixture.Link(root, &nextID)
	stampURI(root, uri)
}

func stampURI(n *fixture.Node, uri string) {
	n.URIValue = uri
	for _, c := range n.ChildNodes {
		stampURI(c, uri)
	}
}

func init() {
	logger = output.NewLogger(output.VerbositySilent)
}
