package resolve

import (
	"strings"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/definition"
)

// DeclarationLine reconstructs the single source line a Definition shows
// for its declaration, per §4.8. For a property element or a const
// element, the enclosing declaration's full text is spliced so only the
// element in question appears (so `public $a, $b, $c;` shown at `$b`
// becomes `public $b;`); every other node uses its own text. The result
// is always truncated at the first newline.
func DeclarationLine(node ast.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case ast.PropertyElement:
		if decl := ast.Ancestor(node, ast.PropertyDeclaration); decl != nil {
			return definition.TruncateDeclarationLine(spliceElement(decl, node))
		}
	case ast.ConstElement:
		if decl := ast.Ancestor(node, ast.ConstDeclaration); decl != nil {
			return definition.TruncateDeclarationLine(spliceElement(decl, node))
		}
		if decl := ast.Ancestor(node, ast.ClassConstDeclaration); decl != nil {
			return definition.TruncateDeclarationLine(spliceElement(decl, node))
		}
	}
	return definition.TruncateDeclarationLine(node.Text())
}

// spliceElement rebuilds decl's text with every sibling element in its
// element list removed except element itself, by operating on byte
// offsets relative to decl's own span. The modifiers and keyword prefix
// preceding the element list (e.g. "public", "const") are preserved
// verbatim; the element list is replaced by element's own text and the
// declaration's closing punctuation (";") is carried over.
func spliceElement(decl, element ast.Node) string {
	declText := decl.Text()
	declStart := decl.StartOffset()
	elemStart := element.StartOffset() - declStart
	elemEnd := elemStart + element.Width()
	if elemStart < 0 || elemEnd > len(declText) || elemStart > elemEnd {
		return declText
	}
	prefix := declPrefixBeforeElementList(decl, declText, declStart)
	suffix := trailingPunctuation(declText)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(declText[elemStart:elemEnd])
	b.WriteString(suffix)
	return b.String()
}

// declPrefixBeforeElementList returns the text of decl preceding its
// element list: everything before the start offset of decl's first
// PropertyElement or ConstElement child. It returns "" when decl has no
// such child or that child's offset falls outside decl's text.
func declPrefixBeforeElementList(decl ast.Node, declText string, declStart int) string {
	for _, c := range decl.Children() {
		if c.Kind() == ast.PropertyElement || c.Kind() == ast.ConstElement {
			cut := c.StartOffset() - declStart
			if cut >= 0 && cut <= len(declText) {
				return declText[:cut]
			}
			break
		}
	}
	return ""
}

// trailingPunctuation returns the statement-terminating ";" from the end
// of declText, if present.
func trailingPunctuation(declText string) string {
	trimmed := strings.TrimRight(declText, " \t\r\n")
	if strings.HasSuffix(trimmed, ";") {
		return ";"
	}
	return ""
}
