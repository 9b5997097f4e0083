package lexer

import (
	"ppfront/internal/diag"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем, но продолжаем лексить
}

func (lx *Lexer) report(code diag.Code, start, end int, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, lx.span(start, end), msg).Emit()
}
