package preproc

import (
	"context"

	"ppfront/internal/diag"
	"ppfront/internal/macro"
	"ppfront/internal/provenance"
	"ppfront/internal/token"
)

type tokenSource interface {
	next() token.Token
}

// sliceSource feeds a fixed token list followed by an EOF.
type sliceSource struct {
	toks []token.Token
	pos  int
	eof  token.Token
}

func newSliceSource(toks []token.Token) *sliceSource {
	s := &sliceSource{toks: toks}
	if n := len(toks); n > 0 {
		last := toks[n-1]
		s.eof = token.Token{Kind: token.EOF, Span: last.Span, Origin: last.Origin}
	}
	return s
}

func (s *sliceSource) next() token.Token {
	if s.pos >= len(s.toks) {
		return s.eof
	}
	t := s.toks[s.pos]
	s.pos++
	return t
}

// expander rescans tokens iteratively: substituted replacement lists are pushed
// onto pending and read back before the source, so nesting depth never grows
// the Go stack. Only argument pre-expansion recurses, bounded by how deeply
// invocations are nested inside arguments.
type expander struct {
	p       *Processor
	src     tokenSource
	pending []token.Token // последний элемент читается первым
	primary bool
}

func newExpander(p *Processor, src tokenSource, primary bool) *expander {
	return &expander{p: p, src: src, primary: primary}
}

func (e *expander) next() token.Token {
	if n := len(e.pending); n > 0 {
		t := e.pending[n-1]
		e.pending = e.pending[:n-1]
		return t
	}
	return e.src.next()
}

// pushBack makes toks[0] the next token read.
func (e *expander) pushBack(toks ...token.Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		e.pending = append(e.pending, toks[i])
	}
}

const cancelCheckEvery = 4096

// run expands the whole source. The primary expander keeps the final EOF.
func (e *expander) run(ctx context.Context) ([]token.Token, error) {
	var out []token.Token
	for n := 0; ; n++ {
		if n%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t := e.next()
		switch {
		case t.Kind == token.EOF:
			if e.primary {
				out = append(out, t)
			}
			return out, nil
		case t.IsIdent():
			out = e.identifier(t, out)
		default:
			out = append(out, t)
		}
	}
}

// expandSlice fully macro-expands toks in isolation.
func (p *Processor) expandSlice(toks []token.Token) []token.Token {
	if len(toks) == 0 {
		return nil
	}
	out, _ := newExpander(p, newSliceSource(toks), false).run(context.Background())
	return out
}

func (e *expander) identifier(t token.Token, out []token.Token) []token.Token {
	m := e.p.macros.Lookup(t.Text)
	if m == nil {
		return append(out, t)
	}
	id := e.p.names.Intern(t.Text)
	if t.Hide.Has(id) {
		return append(out, t)
	}

	if m.Kind == macro.ObjectLike {
		exp := e.p.arena.AddInvocation(provenance.Invocation{Macro: m, Name: t})
		body := e.p.substitute(m, exp, nil)
		e.pushBack(withHide(body, t.Hide.With(id))...)
		return out
	}

	// function-like: ищем '(' через пробелы и переводы строк
	var gap []token.Token
	la := e.next()
	for la.IsSpace() {
		gap = append(gap, la)
		la = e.next()
	}
	if !la.IsPunct("(") {
		out = append(out, t)
		out = append(out, gap...)
		e.pushBack(la)
		return out
	}

	args, closing, ok := e.collectArgs(m, t, la)
	if !ok {
		return out
	}
	exp := e.p.arena.AddInvocation(provenance.Invocation{Macro: m, Name: t, Args: args})
	body := e.p.substitute(m, exp, args)
	e.pushBack(withHide(body, t.Hide.Intersect(closing.Hide).With(id))...)
	return out
}

func withHide(toks []token.Token, hs token.HideSet) []token.Token {
	for i := range toks {
		toks[i].Hide = toks[i].Hide.Union(hs)
	}
	return toks
}

// collectArgs reads the arguments up to the matching ')'. Each argument is
// trimmed; for variadic macros everything after the named parameters, commas
// included, forms the last argument.
func (e *expander) collectArgs(m *macro.Macro, name, open token.Token) ([][]token.Token, token.Token, bool) {
	var (
		args  [][]token.Token
		cur   []token.Token
		depth int
	)
	for {
		t := e.next()
		switch {
		case t.Kind == token.EOF:
			diag.ReportError(e.p.reporter, diag.MacUnterminatedInvocation, e.p.at(t),
				"expected `)` to end invocation of macro `"+m.Name+"`").
				WithNote(e.p.at(open), "macro `"+m.Name+"` invocation opened here").
				Emit()
			if e.primary {
				e.p.fatal = true
				e.p.stopped = true
			}
			e.pushBack(t)
			return nil, t, false
		case t.IsPunct("("):
			depth++
			cur = append(cur, t)
		case t.IsPunct(")") && depth > 0:
			depth--
			cur = append(cur, t)
		case t.IsPunct(")"):
			if len(token.Trim(cur)) > 0 || len(m.Params) > 0 || len(args) > 0 {
				args = append(args, token.Trim(cur))
			}
			if !e.checkArity(m, open, args) {
				return nil, t, false
			}
			if m.Variadic && len(args) == len(m.Params) {
				args = append(args, nil)
			}
			return args, t, true
		case t.IsPunct(",") && depth == 0 && !(m.Variadic && len(args) == len(m.Params)):
			args = append(args, token.Trim(cur))
			cur = nil
		default:
			cur = append(cur, t)
		}
	}
}

func (e *expander) checkArity(m *macro.Macro, open token.Token, args [][]token.Token) bool {
	got, want := len(args), len(m.Params)
	if got == want || m.Variadic && got > want {
		return true
	}
	qual := "exactly"
	if m.Variadic {
		qual = "at least"
	}
	noun := "arguments"
	if want == 1 {
		noun = "argument"
	}
	e.p.errorf(diag.MacArity, e.p.at(open), "`%s` expects %s %d %s; found %d", m.Name, qual, want, noun, got)
	return false
}
