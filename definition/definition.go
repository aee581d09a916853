// Package definition holds the Definition record: the aggregate the
// resolver produces for every declared symbol, and the small symbol-
// information payload surrounding features use to render a result.
package definition

import (
	"strings"

	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/symtype"
)

// SymbolKind classifies a Definition for display purposes (go-to-
// definition result lists, outline views).
type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolClass
	SymbolInterface
	SymbolTrait
	SymbolNamespace
	SymbolFunction
	SymbolMethod
	SymbolProperty
	SymbolConstant
	SymbolClassConstant
)

// Location identifies a position in a source document.
type Location struct {
	URI  string
	Line int
}

// SymbolInformation is the small, display-oriented payload a Definition
// carries alongside its resolver-facing fields.
type SymbolInformation struct {
	Name          string
	Kind          SymbolKind
	ContainerName string
	Location      *Location // nil when the definition has no known source position
}

// Definition describes one defined symbol: what its FQN is, what kind of
// declaration introduced it, its declared type, the source line that
// declares it, its doc-comment text, and (for classes and interfaces)
// what it extends.
//
// Definitions reference other definitions only by FQN string, never by
// pointer, so the index that owns them stays acyclic and safely
// snapshottable.
type Definition struct {
	Fqn             fqn.FQN
	IsClass         bool
	IsGlobal        bool
	IsStatic        bool
	Extends         []fqn.FQN // non-empty only for classes (at most one) and interfaces
	Type            symtype.Type
	DeclarationLine string // single line, truncated at first newline
	Documentation   string // the raw doc-comment text as written (no summary extraction); "" when there is none
	SymbolInfo      SymbolInformation
}

// CanBeInstantiated reports whether this definition names something a
// `new` expression could instantiate. Derived from IsClass at read time
// rather than stored, per the module's data model.
func (d Definition) CanBeInstantiated() bool {
	return d.IsClass
}

// TruncateDeclarationLine returns text truncated at its first newline, the
// normalization every DeclarationLine value goes through before being
// stored on a Definition.
func TruncateDeclarationLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
