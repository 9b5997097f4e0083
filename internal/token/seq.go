package token

import (
	"strings"
)

// Trim drops leading and trailing whitespace and newline tokens.
func Trim(toks []Token) []Token {
	start, end := 0, len(toks)
	for start < end && toks[start].IsSpace() {
		start++
	}
	for end > start && toks[end-1].IsSpace() {
		end--
	}
	return toks[start:end]
}

// LooseEqual compares two sequences ignoring whitespace and newline tokens; the
// remaining tokens must agree in kind and spelling, EOF included.
func LooseEqual(a, b []Token) bool {
	i, j := 0, 0
	for {
		for i < len(a) && a[i].IsSpace() {
			i++
		}
		for j < len(b) && b[j].IsSpace() {
			j++
		}
		if i == len(a) || j == len(b) {
			return i == len(a) && j == len(b)
		}
		if a[i].Kind != b[j].Kind || a[i].Text != b[j].Text {
			return false
		}
		i++
		j++
	}
}

// Spell joins the spellings of toks as they are.
func Spell(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Render produces preprocessed text: every whitespace run becomes one space,
// newlines are kept, EOF is dropped.
func Render(toks []Token) string {
	var sb strings.Builder
	space := false
	for _, t := range toks {
		switch t.Kind {
		case EOF:
			continue
		case Whitespace:
			space = true
			continue
		case Newline:
			sb.WriteByte('\n')
			space = false
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// SameSpelling compares two sequences with every whitespace run treated as one
// separator; used for macro redefinition checks.
func SameSpelling(a, b []Token) bool {
	a, b = Trim(a), Trim(b)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		aw, bw := a[i].IsSpace(), b[j].IsSpace()
		if aw != bw {
			return false
		}
		if aw {
			for i < len(a) && a[i].IsSpace() {
				i++
			}
			for j < len(b) && b[j].IsSpace() {
				j++
			}
			continue
		}
		if a[i].Kind != b[j].Kind || a[i].Text != b[j].Text {
			return false
		}
		i++
		j++
	}
	return i == len(a) && j == len(b)
}

// RenderSpaced joins tokens with one space; used for phase 6 output, which has
// no whitespace tokens left.
func RenderSpaced(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		if t.Kind == EOF || t.IsSpace() {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
