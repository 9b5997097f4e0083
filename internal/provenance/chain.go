package provenance

import (
	"ppfront/internal/source"
	"ppfront/internal/token"
)

// FileChain walks the inclusion dimension from file outwards to the main file.
func (a *Arena) FileChain(id source.FileID) []FileRecord {
	var out []FileRecord
	seen := make(map[source.FileID]struct{})
	for {
		rec, ok := a.files[id]
		if !ok {
			return out
		}
		if _, dup := seen[id]; dup {
			return out
		}
		seen[id] = struct{}{}
		out = append(out, rec)
		if rec.Root {
			return out
		}
		id = rec.IncludedAt.File
	}
}

// Step is one hop of the expansion dimension.
type Step struct {
	ID         token.ExpansionID
	Invocation Invocation
	// FromArg is true when the token came from an argument rather than the body.
	FromArg bool
}

// ExpansionChain walks the macro dimension from the innermost invocation
// outwards. Body tokens continue through the invoking name token, argument
// tokens through the argument token they were copied from.
func (a *Arena) ExpansionChain(tok token.Token) []Step {
	var out []Step
	cur := tok
	for cur.Origin.Expansion != token.NoExpansion {
		inv, ok := a.Invocation(cur.Origin.Expansion)
		if !ok {
			break
		}
		step := Step{ID: cur.Origin.Expansion, Invocation: inv, FromArg: cur.Origin.Arg != token.BodyArg}
		out = append(out, step)
		next, ok := a.parent(cur, inv)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

func (a *Arena) parent(tok token.Token, inv Invocation) (token.Token, bool) {
	if tok.Origin.Arg == token.BodyArg {
		return inv.Name, true
	}
	arg := int(tok.Origin.Arg)
	if arg < 0 || arg >= len(inv.Args) || int(tok.Origin.Index) >= len(inv.Args[arg]) {
		return inv.Name, true
	}
	return inv.Args[arg][tok.Origin.Index], true
}

// RootSpan returns the file span a diagnostic about tok should point at: for
// tokens produced by expansions this is the outermost invocation site (or the
// argument text as written at that site).
func (a *Arena) RootSpan(tok token.Token) source.Span {
	cur := tok
	for cur.Origin.Expansion != token.NoExpansion {
		inv, ok := a.Invocation(cur.Origin.Expansion)
		if !ok {
			break
		}
		next, _ := a.parent(cur, inv)
		// ID invocation строго меньше, чем у порождённых ею токенов: цикл невозможен
		if next.Origin.Expansion >= cur.Origin.Expansion && next.Origin.Expansion != token.NoExpansion {
			return next.Span
		}
		cur = next
	}
	return cur.Span
}
