package preproc

import (
	"errors"
	"slices"
	"strings"

	"ppfront/internal/diag"
	"ppfront/internal/include"
	"ppfront/internal/macro"
	"ppfront/internal/token"
	"ppfront/internal/trace"
)

// define handles `#define`; rest is the line after the directive name.
func (p *Processor) define(rest []token.Token) {
	i := skipBlank(rest, 0)
	name := rest[i]
	if !name.IsIdent() {
		p.errorf(diag.DirExpectedFound, p.at(name), "expected identifier token; found %s token", name.Kind)
		return
	}
	m := &macro.Macro{Name: name.Text, Kind: macro.ObjectLike, Origin: name}
	k := i + 1
	if k < len(rest) && rest[k].IsPunct("(") {
		m.Kind = macro.FunctionLike
		next, ok := p.parseParams(m, rest, k+1)
		if !ok {
			return
		}
		k = next
	}
	m.Body = token.Trim(rest[k:])
	if !p.checkBody(m) {
		return
	}

	res, prev := p.macros.Define(m)
	if res == macro.Conflict {
		diag.ReportError(p.reporter, diag.MacRedefined, p.at(name), "macro `"+m.Name+"` redefined differently").
			WithNote(p.at(prev.Origin), "macro `"+m.Name+"` first defined here").
			Emit()
	}
}

type paramState uint8

const (
	afterLParen paramState = iota
	afterIdent
	afterComma
	afterVararg
)

// parseParams reads the parameter list starting after '(' and returns the
// index following ')'.
func (p *Processor) parseParams(m *macro.Macro, toks []token.Token, i int) (int, bool) {
	st := afterLParen
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.Kind == token.Whitespace {
			continue
		}
		switch st {
		case afterLParen, afterComma:
			switch {
			case t.IsIdent():
				if slices.Contains(m.Params, t.Text) {
					p.errorf(diag.DirParamRepeated, p.at(t), "macro parameter `%s` repeated", t.Text)
					return 0, false
				}
				if len(m.Params) == macro.MaxParams {
					p.errorf(diag.DirTooManyParams, p.at(t), "macro `%s` has more than %d parameters", m.Name, macro.MaxParams)
					return 0, false
				}
				m.Params = append(m.Params, t.Text)
				st = afterIdent
			case t.IsPunct("..."):
				m.Variadic = true
				st = afterVararg
			case t.IsPunct(")") && st == afterLParen:
				return i + 1, true
			default:
				p.errorf(diag.DirExpectedFound, p.at(t), "expected identifier or `...`; found %s", t.Describe())
				return 0, false
			}
		case afterIdent:
			switch {
			case t.IsPunct(","):
				st = afterComma
			case t.IsPunct(")"):
				return i + 1, true
			default:
				p.errorf(diag.DirExpectedFound, p.at(t), "expected `,`; found %s", t.Describe())
				return 0, false
			}
		case afterVararg:
			if t.IsPunct(")") {
				return i + 1, true
			}
			p.errorf(diag.DirExpectedFound, p.at(t), "expected `)`; found %s", t.Describe())
			return 0, false
		}
	}
	return 0, false
}

// checkBody validates the placement of '#' and '##' in the replacement list.
func (p *Processor) checkBody(m *macro.Macro) bool {
	body := m.Body
	if len(body) == 0 {
		return true
	}
	for _, t := range []token.Token{body[0], body[len(body)-1]} {
		if isPaste(t) {
			p.errorf(diag.DirPasteAtEdge, p.at(t), "a macro cannot begin nor end with `##`")
			return false
		}
	}
	if m.Kind != macro.FunctionLike {
		return true
	}
	for i, t := range body {
		if !isHash(t) {
			continue
		}
		j := skipBlank(body, i+1)
		if j >= len(body) || !body[j].IsIdent() || m.ParamIndex(body[j].Text) < 0 {
			p.errorf(diag.DirStringifyNotParam, p.at(t), "the `#` operator must be followed by a macro parameter")
			return false
		}
	}
	return true
}

func (p *Processor) undef(rest []token.Token) {
	i := skipBlank(rest, 0)
	name := rest[i]
	if !name.IsIdent() {
		p.errorf(diag.DirExpectedFound, p.at(name), "expected identifier token; found %s token", name.Kind)
		return
	}
	if j := skipBlank(rest, i+1); j < len(rest) && rest[j].Kind != token.Newline {
		p.errorf(diag.DirExpectedFound, p.at(rest[j]), "expected newline; found %s token", rest[j].Kind)
		return
	}
	if !p.macros.Undefine(name.Text) {
		p.errorf(diag.MacUndefinedName, p.at(name), "macro `%s` does not exist", name.Text)
	}
}

const msgExpectedFilename = "expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"

// include handles `#include` in buffer b.
func (r *reader) include(b *buffer, directive token.Token, rest []token.Token) {
	p := r.p
	line := rest[skipBlank(rest, 0):]
	if len(line) == 0 || line[0].Kind == token.Newline {
		at := directive
		if len(line) > 0 {
			at = line[0]
		}
		p.errorf(diag.IncExpectedFilename, p.at(at), msgExpectedFilename)
		return
	}
	expanded := line[0].IsIdent()
	if expanded {
		line = p.expandSlice(token.Trim(line))
		line = line[skipSpace(line, 0):]
		if len(line) == 0 {
			p.errorf(diag.IncExpectedFilename, p.at(rest[skipBlank(rest, 0)]), msgExpectedFilename)
			return
		}
	}

	req, target, tail, ok := r.filename(line)
	if !ok {
		return
	}
	if j := skipBlank(tail, 0); j < len(tail) && tail[j].Kind != token.Newline {
		if expanded {
			// макрос должен дать ровно одно имя файла
			p.errorf(diag.IncExpectedFilename, p.at(rest[skipBlank(rest, 0)]), msgExpectedFilename)
			return
		}
		p.warnf(diag.IncExtraTokens, p.at(tail[j]), "expected newline after <FILENAME>; found %s token", tail[j].Kind)
	}

	at := p.at(target)
	if !r.stack.CanPush() {
		p.errorf(diag.IncDepthExceeded, at, "%s", include.ErrDepthExceeded.Error())
		p.fatal = true
		return
	}
	req.IncluderDir = p.fs.Get(b.file).Dir()
	found, err := p.opts.Resolver.Resolve(req)
	switch {
	case errors.Is(err, include.ErrNotFound):
		p.errorf(diag.IncNotFound, at, "could not include `%s`: file not found", req.Name)
		return
	case err != nil:
		p.errorf(diag.IncReadError, at, "could not include `%s`: %v", req.Name, err)
		return
	}
	if r.stack.IsOnce(found.Path) {
		return
	}
	id, err := p.fs.AddSource(found.Path, found.Content, 0)
	if err != nil {
		p.errorf(diag.IncReadError, at, "could not include `%s`: %v", req.Name, err)
		return
	}
	p.arena.AddIncludedFile(id, at)
	toks := Front(p.fs.Get(id), p.reporter)
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return
	}
	if err := r.stack.Push(include.Entry{Path: found.Path, File: id, Directive: at}); err != nil {
		return
	}
	r.bufs = append(r.bufs, &buffer{file: id, path: found.Path, toks: toks, bol: true})
	trace.Point(p.tracer, trace.ScopeDirective, "include", 0).
		WithExtra("path", found.Path).
		Emit()
}

// filename parses the <...> or "..." target at line[0]. The returned token is
// the one diagnostics about the target point at.
func (r *reader) filename(line []token.Token) (include.Request, token.Token, []token.Token, bool) {
	p := r.p
	first := line[0]
	switch {
	case first.IsPunct("<"):
		var sb strings.Builder
		for i := 1; i < len(line); i++ {
			t := line[i]
			switch {
			case t.IsPunct(">"):
				return include.Request{Name: sb.String(), System: true}, first, line[i+1:], true
			case t.Kind == token.Newline || t.Kind == token.EOF:
				p.errorf(diag.IncUnclosedAngle, p.at(t), "expected `>` to close corresponding `<` after `#include`")
				return include.Request{}, first, nil, false
			}
			sb.WriteString(t.Text)
		}
		last := line[len(line)-1]
		p.errorf(diag.IncUnclosedAngle, p.at(last), "expected `>` to close corresponding `<` after `#include`")
		return include.Request{}, first, nil, false
	case first.Kind == token.String && strings.HasPrefix(first.Text, `"`) && len(first.Text) >= 2:
		return include.Request{Name: first.Text[1 : len(first.Text)-1]}, first, line[1:], true
	}
	p.errorf(diag.IncExpectedFilename, p.at(first), msgExpectedFilename)
	return include.Request{}, first, nil, false
}
