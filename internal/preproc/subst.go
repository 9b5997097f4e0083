package preproc

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"ppfront/internal/diag"
	"ppfront/internal/lexer"
	"ppfront/internal/macro"
	"ppfront/internal/token"
)

// substitute builds the replacement of one invocation: parameters replaced by
// their arguments, '#' and '##' applied. Tokens are stamped with the invocation
// so provenance can reach the call site.
func (p *Processor) substitute(m *macro.Macro, exp token.ExpansionID, raw [][]token.Token) []token.Token {
	body := make([]token.Token, len(m.Body))
	for i, t := range m.Body {
		t.Origin = origin(exp, int(token.BodyArg), i)
		body[i] = t
	}
	stamped := make([][]token.Token, len(raw))
	for k, arg := range raw {
		stamped[k] = make([]token.Token, len(arg))
		for j, t := range arg {
			t.Origin = origin(exp, k, j)
			stamped[k][j] = t
		}
	}
	expanded := make([][]token.Token, len(raw))
	done := make([]bool, len(raw))
	expandedArg := func(k int) []token.Token {
		if !done[k] {
			expanded[k] = p.expandSlice(stamped[k])
			done[k] = true
		}
		return expanded[k]
	}
	param := func(t token.Token) int {
		if !t.IsIdent() {
			return -1
		}
		return m.ParamIndex(t.Text)
	}

	var out []token.Token
	// marker: последний операнд ## был пустым аргументом
	marker := false
	for i := 0; i < len(body); i++ {
		t := body[i]
		switch {
		case m.Kind == macro.FunctionLike && isHash(t):
			j := skipBlank(body, i+1)
			if j < len(body) {
				if k := param(body[j]); k >= 0 {
					out = append(out, stringize(t, raw[k]))
					marker = false
					i = j
					continue
				}
			}
			out = append(out, t)
			marker = false

		case isPaste(t):
			var next int
			out, next, marker = p.paste(out, body, i, stamped, param, marker)
			i = next

		case param(t) >= 0:
			k := param(t)
			j := skipBlank(body, i+1)
			if j < len(body) && isPaste(body[j]) {
				out = append(out, stamped[k]...)
				marker = len(stamped[k]) == 0
				i = j - 1
				continue
			}
			out = append(out, expandedArg(k)...)
			marker = false

		default:
			out = append(out, t)
			if !t.IsSpace() {
				marker = false
			}
		}
	}
	return out
}

// paste applies the '##' at body[i] to the tail of out. It returns the new
// output, the index of the right operand and the placemarker state.
func (p *Processor) paste(out, body []token.Token, i int, stamped [][]token.Token, param func(token.Token) int, marker bool) ([]token.Token, int, bool) {
	op := body[i]
	r := skipBlank(body, i+1)
	var rhs []token.Token
	if k := param(body[r]); k >= 0 {
		rhs = stamped[k]
	} else {
		rhs = body[r : r+1]
	}
	if !marker {
		for len(out) > 0 && out[len(out)-1].IsSpace() {
			out = out[:len(out)-1]
		}
	}
	switch {
	case len(rhs) == 0:
		return out, r, marker
	case marker || len(out) == 0:
		return append(out, rhs...), r, false
	}

	lhs := out[len(out)-1]
	out = out[:len(out)-1]
	text := lhs.Text + rhs[0].Text
	n, kind := lexer.LexOne(text)
	if n != len(text) || kind == token.Whitespace || kind == token.Newline {
		diag.ReportError(p.reporter, diag.MacInvalidPaste, p.at(op),
			"concatenating `"+lhs.Text+"` and `"+rhs[0].Text+"` does not result in a valid preprocessor token").Emit()
		out = append(out, lhs)
		return append(out, rhs...), r, false
	}
	glued := token.Token{
		Kind:   kind,
		Text:   text,
		Span:   op.Span,
		Origin: op.Origin,
		Hide:   lhs.Hide.Intersect(rhs[0].Hide),
	}
	out = append(out, glued)
	return append(out, rhs[1:]...), r, false
}

// stringize spells an argument as a string literal: whitespace runs become one
// space, '\' and '"' are escaped inside string and character literals only.
func stringize(hash token.Token, arg []token.Token) token.Token {
	var sb strings.Builder
	sb.WriteByte('"')
	space := false
	for _, t := range token.Trim(arg) {
		if t.IsSpace() {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		if t.Kind != token.String && t.Kind != token.CharConst {
			sb.WriteString(t.Text)
			continue
		}
		for i := 0; i < len(t.Text); i++ {
			if c := t.Text[i]; c == '\\' || c == '"' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(t.Text[i])
		}
	}
	sb.WriteByte('"')
	return token.Token{Kind: token.String, Text: sb.String(), Span: hash.Span, Origin: hash.Origin}
}

// origin stamps a token copied into invocation exp. Argument count is bounded by
// macro.MaxParams and token counts by source size, so overflow is a bug.
func origin(exp token.ExpansionID, arg, index int) token.Origin {
	a, err := safecast.Conv[int16](arg)
	if err != nil {
		panic(fmt.Errorf("argument index overflow: %w", err))
	}
	i, err := safecast.Conv[uint32](index)
	if err != nil {
		panic(fmt.Errorf("token index overflow: %w", err))
	}
	return token.Origin{Expansion: exp, Arg: a, Index: i}
}
