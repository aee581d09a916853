// Package docblock adapts a node's attached doc-comment text into tagged
// sections. A production doc-comment lexer is an external collaborator
// (see the module's top-level specification, §1); this package implements
// just enough of the contract — @param, @return, @var — to drive type
// inference and the CLI driver.
package docblock

import (
	"bufio"
	"strings"
)

// Tag is one recognized doc-comment annotation.
type Tag struct {
	Name     string // "param", "return", or "var"
	VarName  string // for @param: the parameter name, without "$"; empty otherwise
	TypeText string // the raw type expression following the tag, e.g. "int", "?string", "A|B"
}

// Parse scans raw doc-comment text (including its leading "/**" and
// trailing "*/" if present, and leading "*" gutters) and returns every
// recognized tag in source order. Unrecognized tags and free-form
// description text are ignored.
func Parse(raw string) []Tag {
	var tags []Tag
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := cleanGutter(scanner.Text())
		if line == "" || line[0] != '@' {
			continue
		}
		tag, ok := parseTagLine(line)
		if ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// cleanGutter strips a doc-comment line's leading "*" gutter and
// surrounding whitespace, and the block's "/**"/"*/" delimiters if they
// appear on their own line fragment.
func cleanGutter(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "*")
	return strings.TrimSpace(s)
}

// parseTagLine parses one line already known to start with "@", such as
// "@param int $count Number of items." or "@return string" or
// "@var \Foo\Bar".
func parseTagLine(line string) (Tag, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Tag{}, false
	}
	name := strings.TrimPrefix(fields[0], "@")
	switch name {
	case "param":
		return parseParamTag(name, fields[1:])
	case "return", "var":
		if len(fields) < 2 {
			return Tag{}, false
		}
		return Tag{Name: name, TypeText: fields[1]}, true
	default:
		return Tag{}, false
	}
}

// parseParamTag handles both "@param Type $name" and "@param $name Type"
// orderings, since doc-comment conventions vary on which comes first; the
// type-like token (not starting with "$") is taken as the type.
func parseParamTag(name string, fields []string) (Tag, bool) {
	var varName, typeText string
	for _, f := range fields {
		if strings.HasPrefix(f, "$") {
			if varName == "" {
				varName = strings.TrimPrefix(f, "$")
			}
			continue
		}
		if typeText == "" {
			typeText = f
		}
	}
	if varName == "" {
		return Tag{}, false
	}
	return Tag{Name: name, VarName: varName, TypeText: typeText}, true
}

// Find returns the first tag named name, and whether one was found.
func Find(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// FindParam returns the @param tag for the given parameter name, and
// whether one was found.
func FindParam(tags []Tag, varName string) (Tag, bool) {
	for _, t := range tags {
		if t.Name == "param" && t.VarName == varName {
			return t, true
		}
	}
	return Tag{}, false
}
