package diag

import (
	"fmt"
	"strings"

	"ppfront/internal/source"
)

// Line renders a location as "<file>:<line>:<col>: <msg>".
func Line(fs *source.FileSet, sp source.Span, msg string) string {
	loc, ok := resolveSpan(fs, sp)
	if !ok {
		return "<unknown>: " + sanitizeMessage(msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", loc.Path, loc.Line, loc.Column, sanitizeMessage(msg))
}

// Lines flattens diagnostics and their notes into one line each, in emission order.
func Lines(diags []Diagnostic, fs *source.FileSet) []string {
	out := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		out = append(out, Line(fs, d.Primary, d.Message))
		for _, n := range d.Notes {
			out = append(out, Line(fs, n.Span, n.Msg))
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	if fs == nil || int(span.File) >= fs.Len() {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   file.Path,
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
