package preproc

import (
	"ppfront/internal/diag"
	"ppfront/internal/include"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

// buffer is one open file: its phase 3 tokens and conditional state.
type buffer struct {
	file  source.FileID
	path  string
	toks  []token.Token
	pos   int
	bol   bool // в начале строки
	conds []*cond
}

func (b *buffer) peek() token.Token {
	return b.toks[b.pos]
}

func (b *buffer) atEOF() bool {
	return b.toks[b.pos].Kind == token.EOF
}

// takeLine consumes the rest of the current line including its newline.
func (b *buffer) takeLine() []token.Token {
	start := b.pos
	for !b.atEOF() {
		t := b.toks[b.pos]
		b.pos++
		if t.Kind == token.Newline {
			break
		}
	}
	b.bol = true
	return b.toks[start:b.pos]
}

// reader is the directive-aware token source of a translation unit: it executes
// directive lines, skips excluded groups and steps into included files.
type reader struct {
	p     *Processor
	bufs  []*buffer
	stack *include.Stack
	eof   token.Token
}

func newReader(p *Processor, main source.FileID, toks []token.Token) *reader {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF, Span: source.Span{File: main}})
	}
	f := p.fs.Get(main)
	b := &buffer{file: main, path: f.Path, toks: toks, bol: true}
	return &reader{
		p:     p,
		bufs:  []*buffer{b},
		stack: include.NewStack(include.Entry{Path: f.Path, File: main}, p.opts.MaxIncludeDepth),
		eof:   toks[len(toks)-1],
	}
}

func (r *reader) top() *buffer {
	return r.bufs[len(r.bufs)-1]
}

func (r *reader) next() token.Token {
	for {
		if r.p.stopped {
			return r.eof
		}
		b := r.top()
		if b.atEOF() {
			r.closeConditionals(b)
			if len(r.bufs) > 1 {
				r.bufs = r.bufs[:len(r.bufs)-1]
				r.stack.Pop()
				continue
			}
			return b.peek()
		}
		if b.bol {
			b.bol = false
			if r.directive(b) {
				continue
			}
		}
		t := b.toks[b.pos]
		b.pos++
		if t.Kind == token.Newline {
			b.bol = true
		}
		return t
	}
}

// directiveStart returns the index of the token after '#' on the line starting
// at line[0]; ok is false for text lines. A '#' followed by a newline is the null
// directive (name index points at the newline).
func directiveStart(line []token.Token) (int, bool) {
	i := skipBlank(line, 0)
	if i >= len(line) || !isHash(line[i]) {
		return 0, false
	}
	j := skipBlank(line, i+1)
	if j >= len(line) || line[j].Kind == token.EOF {
		return 0, false
	}
	return j, true
}

// restOfLine returns the tokens from b.pos through the newline without consuming.
func (b *buffer) restOfLine() []token.Token {
	end := b.pos
	for end < len(b.toks) && b.toks[end].Kind != token.EOF {
		end++
		if b.toks[end-1].Kind == token.Newline {
			break
		}
	}
	return b.toks[b.pos:end]
}

// directive executes the line at b.pos if it is a directive line.
func (r *reader) directive(b *buffer) bool {
	nameIdx, ok := directiveStart(b.restOfLine())
	if !ok {
		return false
	}
	line := b.takeLine()
	name := line[nameIdx]
	if name.Kind == token.Newline {
		return true
	}
	if name.Kind != token.Identifier {
		r.p.errorf(diag.DirExpectedFound, r.p.at(name), "expected identifier; found %s token", name.Kind)
		return true
	}
	rest := line[nameIdx+1:]
	switch name.Text {
	case "define":
		r.p.define(rest)
	case "undef":
		r.p.undef(rest)
	case "include":
		r.include(b, name, rest)
	case "ifdef", "ifndef":
		r.ifdef(b, name, rest)
	case "if":
		r.ifExpr(b, name)
	case "elif":
		r.elif(b, name)
	case "else":
		r.elseDirective(b, name, rest)
	case "endif":
		r.endif(b, name, rest)
	case "error":
		r.p.userMessage(name, rest, true)
	case "warning":
		r.p.userMessage(name, rest, false)
	case "pragma":
		r.pragma(b, rest)
	default:
		r.p.errorf(diag.DirInvalid, name.Span, "invalid directive `%s`", name.Text)
	}
	return true
}

func (r *reader) pragma(b *buffer, rest []token.Token) {
	args := token.Trim(rest)
	if len(args) == 1 && args[0].IsIdent() && args[0].Text == "once" {
		r.stack.MarkOnce(b.path)
	}
}
