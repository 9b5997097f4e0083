package chars

import (
	"ppfront/internal/diag"
	"ppfront/internal/source"
)

// SpliceLines removes backslash-newline pairs. The character after a splice gets a
// span widened back over the removed pair, so tokens crossing the join keep one location.
func SpliceLines(in []Char, reporter diag.Reporter) []Char {
	out := make([]Char, 0, len(in))
	var pending source.Span
	havePending := false

	for i := 0; i < len(in); i++ {
		c := in[i]
		if c.Value == '\\' && i+1 < len(in) && in[i+1].Value == '\n' {
			if !havePending {
				pending = c.Span
				havePending = true
			}
			pending = pending.Cover(in[i+1].Span)
			i++
			continue
		}
		if havePending {
			c.Span = pending.Cover(c.Span)
			havePending = false
		}
		out = append(out, c)
	}

	switch {
	case havePending:
		report(reporter, pending)
	case len(in) > 0 && in[len(in)-1].Value == '\\':
		report(reporter, in[len(in)-1].Span)
	}
	return out
}

func report(reporter diag.Reporter, sp source.Span) {
	if reporter == nil {
		return
	}
	diag.ReportError(reporter, diag.LexBackslashAtEOF, sp, "file cannot end with a backslash").Emit()
}
