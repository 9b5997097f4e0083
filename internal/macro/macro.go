// Package macro holds macro definitions and the per-unit macro table.
package macro

import (
	"math"
	"slices"

	"ppfront/internal/token"
)

// VarArgs is the parameter name bound to the variadic tail.
const VarArgs = "__VA_ARGS__"

// MaxParams bounds named parameters so every argument index, the variadic
// tail included, fits token.Origin.Arg.
const MaxParams = math.MaxInt16 - 1

type Kind uint8

const (
	ObjectLike Kind = iota
	FunctionLike
)

func (k Kind) String() string {
	if k == FunctionLike {
		return "function-like"
	}
	return "object-like"
}

// Macro is an immutable definition. Body is the trimmed, unexpanded replacement list.
type Macro struct {
	Name     string
	Kind     Kind
	Params   []string
	Variadic bool
	Body     []token.Token
	// Origin is the name token of the #define line.
	Origin token.Token
}

// ParamIndex returns the argument slot for name: named parameters first, then
// __VA_ARGS__ for variadic macros. -1 when name is not a parameter.
func (m *Macro) ParamIndex(name string) int {
	if m.Kind != FunctionLike {
		return -1
	}
	if i := slices.Index(m.Params, name); i >= 0 {
		return i
	}
	if m.Variadic && name == VarArgs {
		return len(m.Params)
	}
	return -1
}

// Slots is the number of argument slots an invocation fills.
func (m *Macro) Slots() int {
	if m.Variadic {
		return len(m.Params) + 1
	}
	return len(m.Params)
}

// Equivalent reports whether a redefinition with o is allowed: same kind, same
// parameters and replacement lists equal up to whitespace-run differences.
func (m *Macro) Equivalent(o *Macro) bool {
	if m.Kind != o.Kind || m.Variadic != o.Variadic || !slices.Equal(m.Params, o.Params) {
		return false
	}
	return token.SameSpelling(m.Body, o.Body)
}
