package preproc

import (
	"fmt"

	"ppfront/internal/diag"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

func (p *Processor) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(p.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (p *Processor) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportWarning(p.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// at resolves the span a diagnostic about tok should use.
func (p *Processor) at(tok token.Token) source.Span {
	return p.arena.RootSpan(tok)
}

func (p *Processor) userMessage(name token.Token, rest []token.Token, isError bool) {
	msg := "#" + name.Text
	if text := token.Render(token.Trim(rest)); text != "" {
		msg += " " + text
	}
	if isError {
		diag.ReportError(p.reporter, diag.DirUserError, name.Span, msg).Emit()
		return
	}
	diag.ReportWarning(p.reporter, diag.DirUserWarning, name.Span, msg).Emit()
}

func skipBlank(toks []token.Token, i int) int {
	for i < len(toks) && toks[i].Kind == token.Whitespace {
		i++
	}
	return i
}

func skipSpace(toks []token.Token, i int) int {
	for i < len(toks) && toks[i].IsSpace() {
		i++
	}
	return i
}

func isHash(t token.Token) bool {
	return t.Kind == token.Punct && (t.Text == "#" || t.Text == "%:")
}

func isPaste(t token.Token) bool {
	return t.Kind == token.Punct && (t.Text == "##" || t.Text == "%:%:")
}
