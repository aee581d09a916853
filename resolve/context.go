// Package resolve implements the mutually-recursive heart of the
// resolver: the name builder (definedFqn), the reference resolver
// (referenceToFqn), the variable scope resolver, and type inference
// (typeFromExpression / typeFromNode). These live in one package because
// reference resolution and type inference call into each other directly
// (a member access needs the type of its left-hand side; an assignment's
// type is the type of its right-hand side, which may itself be a member
// access) — splitting them across packages would require an interface
// seam neither side actually needs.
package resolve

import (
	"github.com/roblourens/php-language-server/index"
)

// maxRecursionDepth bounds typeFromExpression's recursion (a member
// access whose type is itself a member access, and so on) so a
// pathological or cyclic source cannot blow the stack. Exceeding it
// degrades to Mixed rather than failing.
const maxRecursionDepth = 64

// Context carries what the resolver needs for one top-level resolution
// call: the index to query and an optional cancellation signal. It holds
// no mutable resolution state of its own — recursion depth is threaded
// explicitly through the internal recursive helpers — so one Context can
// safely be reused and shared across concurrent read-only queries.
type Context struct {
	Index index.ReadableIndex

	// Cancel, if non-nil, is checked at each recursive entry to
	// typeFromExpression. When it is closed (or, for a buffered channel,
	// holds a value ready to receive), inference degrades to Mixed and
	// unwinds immediately. Callers that don't need
	// cancellation leave this nil.
	Cancel <-chan struct{}
}

// cancelled reports whether rc's cancellation signal has fired.
func (rc *Context) cancelled() bool {
	if rc == nil || rc.Cancel == nil {
		return false
	}
	select {
	case <-rc.Cancel:
		return true
	default:
		return false
	}
}

func (rc *Context) index() index.ReadableIndex {
	if rc == nil {
		return nil
	}
	return rc.Index
}
