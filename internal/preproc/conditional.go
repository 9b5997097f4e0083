package preproc

import (
	"ppfront/internal/diag"
	"ppfront/internal/token"
)

type condState uint8

const (
	// condActive: текущая ветка выполняется.
	condActive condState = iota
	// condPending: предыдущие ветки ложны, ждём #else.
	condPending
	// condDone: одна ветка уже выполнена, остальные пропускаются.
	condDone
	// condDiscard: условие некорректно, вся секция отбрасывается.
	condDiscard
)

type cond struct {
	open    token.Token
	state   condState
	sawElse bool
}

func (r *reader) ifdef(b *buffer, name token.Token, rest []token.Token) {
	c := &cond{open: name}
	b.conds = append(b.conds, c)

	i := skipBlank(rest, 0)
	id := rest[i]
	if !id.IsIdent() {
		r.p.errorf(diag.DirExpectedFound, r.p.at(id), "expected identifier; found %s token", id.Kind)
		c.state = condDiscard
		r.skipGroup(b, c)
		return
	}
	if j := skipBlank(rest, i+1); rest[j].Kind != token.Newline {
		r.p.errorf(diag.DirExpectedFound, rest[j].Span, "expected newline; found %s token", rest[j].Kind)
		c.state = condDiscard
		r.skipGroup(b, c)
		return
	}

	defined := r.p.macros.IsDefined(id.Text)
	if defined == (name.Text == "ifdef") {
		c.state = condActive
		return
	}
	c.state = condPending
	r.skipGroup(b, c)
}

func (r *reader) ifExpr(b *buffer, name token.Token) {
	r.p.errorf(diag.DirUnsupportedIf, name.Span, "constant expressions in `#if` are not supported")
	c := &cond{open: name, state: condDiscard}
	b.conds = append(b.conds, c)
	r.skipGroup(b, c)
}

func (r *reader) current(b *buffer, name token.Token) *cond {
	if len(b.conds) == 0 {
		r.p.errorf(diag.DirUnexpected, name.Span, "unexpected directive `%s`", name.Text)
		return nil
	}
	return b.conds[len(b.conds)-1]
}

// elif и else в выполняемой ветке: дальше только пропуск до #endif.
func (r *reader) elif(b *buffer, name token.Token) {
	c := r.current(b, name)
	if c == nil {
		return
	}
	if c.sawElse {
		r.p.errorf(diag.DirExpectedFound, name.Span, "expected `endif` directive; found `elif` directive")
		c.state = condDiscard
	} else {
		c.state = condDone
	}
	r.skipGroup(b, c)
}

func (r *reader) elseDirective(b *buffer, name token.Token, rest []token.Token) {
	c := r.current(b, name)
	if c == nil {
		return
	}
	if c.sawElse {
		r.p.errorf(diag.DirExpectedFound, name.Span, "expected `endif` directive; found `else` directive")
		c.state = condDiscard
		r.skipGroup(b, c)
		return
	}
	r.expectEOL(rest)
	c.sawElse = true
	c.state = condDone
	r.skipGroup(b, c)
}

func (r *reader) endif(b *buffer, name token.Token, rest []token.Token) {
	if r.current(b, name) == nil {
		return
	}
	r.expectEOL(rest)
	b.conds = b.conds[:len(b.conds)-1]
}

func (r *reader) expectEOL(rest []token.Token) {
	if j := skipBlank(rest, 0); j < len(rest) && rest[j].Kind != token.Newline {
		r.p.errorf(diag.DirExpectedFound, rest[j].Span, "expected newline; found %s token", rest[j].Kind)
	}
}

// skipGroup consumes lines of a skipped group. It returns when a branch of c becomes
// active or c is closed by its #endif; nested conditionals are only counted.
func (r *reader) skipGroup(b *buffer, c *cond) {
	depth := 0
	for !b.atEOF() {
		line := b.takeLine()
		idx, ok := directiveStart(line)
		if !ok || line[idx].Kind != token.Identifier {
			continue
		}
		name := line[idx]
		switch name.Text {
		case "if", "ifdef", "ifndef":
			depth++
		case "endif":
			if depth > 0 {
				depth--
				continue
			}
			b.conds = b.conds[:len(b.conds)-1]
			return
		case "else":
			if depth > 0 {
				continue
			}
			if c.sawElse {
				r.p.errorf(diag.DirExpectedFound, name.Span, "expected `endif` directive; found `else` directive")
				c.state = condDiscard
				continue
			}
			c.sawElse = true
			if c.state == condPending {
				r.expectEOL(line[idx+1:])
				c.state = condActive
				return
			}
		case "elif":
			if depth > 0 {
				continue
			}
			switch {
			case c.sawElse:
				r.p.errorf(diag.DirExpectedFound, name.Span, "expected `endif` directive; found `elif` directive")
				c.state = condDiscard
			case c.state == condPending:
				r.p.errorf(diag.DirUnsupportedIf, name.Span, "constant expressions in `#elif` are not supported")
				c.state = condDiscard
			}
		}
	}
}

// closeConditionals reports conditionals still open at the end of b.
func (r *reader) closeConditionals(b *buffer) {
	if len(b.conds) == 0 {
		return
	}
	eof := b.peek()
	for range b.conds {
		r.p.errorf(diag.DirUnterminatedConditional, eof.Span, "expected `endif` directive; found end-of-file token")
	}
	b.conds = nil
}
