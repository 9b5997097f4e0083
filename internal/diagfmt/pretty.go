package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ppfront/internal/diag"
	"ppfront/internal/source"
)

type palette struct {
	err, warn, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		note:   mk(color.FgCyan),
		code:   mk(color.Faint),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.note
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в порядке выдачи.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(fs, d.Primary, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			loc,
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n",
				pal.note.Sprint("note:"),
				location(fs, n.Span, opts.PathMode, opts.BaseDir),
				n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "%d more diagnostic(s) not shown\n", dropped)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, baseDir string) string {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), mode, baseDir), start.Line, start.Col)
}

// writeSnippet печатает строку span'а (и Context строк вокруг) с кареткой.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0)) // #nosec G115 -- неотрицательное
	first := start.Line - min(ctx, start.Line-1)
	lineCount := uint32(len(f.LineIdx)) + 1 // #nosec G115 -- не больше len(Content)
	last := min(start.Line+ctx, lineCount)
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", width, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1 // #nosec G115
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*s |", width, ""), pal.caret.Sprint(underline(text, start.Col, endCol)))
	}
}

// underline строит строку ^~~~ под байтовыми колонками [startCol, endCol).
// Ширина считается по отображаемым символам, табы сохраняются.
func underline(line string, startCol, endCol uint32) string {
	startOff := min(int(startCol)-1, len(line))
	endOff := min(max(int(endCol)-1, startOff), len(line))

	var sb strings.Builder
	for _, r := range line[:startOff] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := runewidth.StringWidth(line[startOff:endOff])
	sb.WriteByte('^')
	if n > 1 {
		sb.WriteString(strings.Repeat("~", n-1))
	}
	return sb.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
