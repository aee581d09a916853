package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roblourens/php-language-server/ast"
)

// DocumentParser turns one document's source text into an AST. The
// production parser is an external collaborator the module never builds
// (see SPEC_FULL.md §1, §6): the CLI driver depends only on this
// interface, and tests (and any embedder) supply a concrete
// implementation the same way they supply an ast.Node fixture elsewhere
// in the module.
type DocumentParser func(uri string, contents []byte) (ast.Node, error)

// ActiveParser is the parser the CLI commands call. It is nil by
// default; a production binary wires a real implementation in before
// calling Execute, and tests wire a fixture-backed one via SetParser.
var ActiveParser DocumentParser

// SetParser installs p as the parser every command uses.
func SetParser(p DocumentParser) {
	ActiveParser = p
}

// errNoParser is returned by any command that needs to parse source and
// finds no parser installed.
var errNoParser = fmt.Errorf("no document parser configured: call cmd.SetParser with a production AST provider before running this command")

// phpFile is one document a directory walk found.
type phpFile struct {
	uri      string
	contents []byte
}

// walkPhpFiles collects every ".php" file under dir, sorted by path for
// deterministic command output.
func walkPhpFiles(dir string) ([]phpFile, error) {
	var files []phpFile
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".php") {
			return nil
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, phpFile{uri: "file://" + path, contents: contents})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// parseFile reads and parses a single file at path.
func parseFile(path string) (uri string, root ast.Node, err error) {
	if ActiveParser == nil {
		return "", nil, errNoParser
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	uri = "file://" + path
	root, err = ActiveParser(uri, contents)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return uri, root, nil
}
