// Package queryfilter compiles the scan command's --filter expression
// (§4.15) against an environment exposing a definition.Definition's
// fields, using expr-lang/expr the same way the teacher's query engine
// evaluates a predicate expression over a graph node's environment.
package queryfilter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roblourens/php-language-server/definition"
)

// Env is the expression environment a --filter program runs against. Field
// names match the filter vocabulary documented in §4.15: isClass,
// isGlobal, isStatic, fqn, canBeInstantiated.
type Env struct {
	IsClass           bool   `expr:"isClass"`
	IsGlobal          bool   `expr:"isGlobal"`
	IsStatic          bool   `expr:"isStatic"`
	Fqn               string `expr:"fqn"`
	CanBeInstantiated bool   `expr:"canBeInstantiated"`
}

func envFor(def definition.Definition) Env {
	return Env{
		IsClass:           def.IsClass,
		IsGlobal:          def.IsGlobal,
		IsStatic:          def.IsStatic,
		Fqn:               def.Fqn.String(),
		CanBeInstantiated: def.CanBeInstantiated(),
	}
}

// Filter is a compiled --filter expression, ready to evaluate against many
// Definitions without recompiling.
type Filter struct {
	program *vm.Program
}

// Compile compiles expression once. A compilation error (a malformed
// expression, or one referencing a field outside Env's vocabulary) is
// returned to the caller as an ordinary error — a CLI input error, not a
// resolver failure, per §4.15.
func Compile(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("queryfilter: compiling %q: %w", expression, err)
	}
	return &Filter{program: program}, nil
}

// Matches evaluates the compiled filter against def. A nil Filter (no
// --filter given) matches everything.
func (f *Filter) Matches(def definition.Definition) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, envFor(def))
	if err != nil {
		return false, fmt.Errorf("queryfilter: evaluating: %w", err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("queryfilter: expression did not evaluate to a boolean, got %T", out)
	}
	return matched, nil
}
