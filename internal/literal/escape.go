package literal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ppfront/internal/diag"
	"ppfront/internal/token"
)

// Unescape runs phase 5: escape sequences inside character constants and
// string literals are replaced by the characters they denote. Invalid escapes
// are reported and dropped from the spelling. toks is modified in place.
func Unescape(toks []token.Token, reporter diag.Reporter) []token.Token {
	for i := range toks {
		t := &toks[i]
		var quote byte
		switch t.Kind {
		case token.String:
			quote = '"'
		case token.CharConst:
			quote = '\''
		default:
			continue
		}
		enc, body, ok := ParsePrefix(t.Text, quote)
		if !ok || strings.IndexByte(body, '\\') < 0 {
			continue
		}
		out := translate(body, enc, func(code diag.Code, msg string) {
			if reporter != nil {
				diag.ReportError(reporter, code, t.Span, msg).Emit()
			}
		})
		t.Text = enc.Prefix() + string(quote) + out + string(quote)
	}
	return toks
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '?': '?', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

type digitEscape struct {
	letter string // то, что стоит после '\'
	radix  int
	max    int // 0 - без ограничения
	exact  bool
}

var (
	hexEscape   = digitEscape{letter: "x", radix: 16}
	octalEscape = digitEscape{letter: "", radix: 8, max: 3}
	ucn16Escape = digitEscape{letter: "u", radix: 16, max: 4, exact: true}
	ucn32Escape = digitEscape{letter: "U", radix: 16, max: 8, exact: true}
)

func translate(body string, enc Encoding, report func(diag.Code, string)) string {
	var sb strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			report(diag.LexEscapeAtEnd, "expected character after escape sequence")
			break
		}
		var esc digitEscape
		switch next := body[i]; {
		case next == 'x':
			esc = hexEscape
			i++
		case next == 'u':
			esc = ucn16Escape
			i++
		case next == 'U':
			esc = ucn32Escape
			i++
		case next >= '0' && next <= '7':
			esc = octalEscape
		default:
			if v, ok := simpleEscapes[next]; ok {
				sb.WriteByte(v)
			} else {
				r, n := utf8.DecodeRuneInString(body[i:])
				report(diag.LexInvalidEscape, fmt.Sprintf("`\\%c` is not a valid escape", r))
				i += n - 1
			}
			i++
			continue
		}

		start := i
		for i < len(body) && isDigit(body[i], esc.radix) && (esc.max == 0 || i-start < esc.max) {
			i++
		}
		digits := body[start:i]
		if r, ok := digitValue(digits, esc, enc, report); ok {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func digitValue(digits string, esc digitEscape, enc Encoding, report func(diag.Code, string)) (rune, bool) {
	switch {
	case digits == "":
		report(diag.LexEscapeAtEnd, "expected character after escape sequence")
		return 0, false
	case esc.exact && len(digits) < esc.max:
		report(diag.LexIncompleteUCN, fmt.Sprintf("expected %d digits after `\\%s`; found %d", esc.max, esc.letter, len(digits)))
		return 0, false
	case esc == hexEscape && len(digits) > enc.Size()*2:
		report(diag.LexEscapeOutOfRange, fmt.Sprintf("`\\%s%s` exceeds range of type (%s)", esc.letter, digits, enc.TypeName()))
		return 0, false
	}
	var v uint32
	for i := 0; i < len(digits); i++ {
		v = v*uint32(esc.radix) + digitOf(digits[i]) // #nosec G115 -- radix 8 или 16
	}
	r := rune(v) // #nosec G115 -- не больше 8 hex-цифр
	if v > utf8.MaxRune || !utf8.ValidRune(r) {
		report(diag.LexUnrepresentable, fmt.Sprintf("`\\%s%s` cannot be represented", esc.letter, digits))
		return 0, false
	}
	return r, true
}

func isDigit(c byte, radix int) bool {
	switch {
	case c >= '0' && c <= '7':
		return true
	case c == '8' || c == '9':
		return radix == 16
	case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return radix == 16
	}
	return false
}

func digitOf(c byte) uint32 {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0')
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10
	}
	return uint32(c-'A') + 10
}

// Concatenate runs phase 6: whitespace and newline tokens are removed and runs
// of adjacent string literals become one literal. A run whose prefixes do not
// combine keeps the first literals and drops each incompatible one.
func Concatenate(toks []token.Token, reporter diag.Reporter) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.IsSpace() {
			continue
		}
		if t.Kind != token.String {
			out = append(out, t)
			continue
		}
		enc, body, ok := ParsePrefix(t.Text, '"')
		if !ok {
			out = append(out, t)
			continue
		}
		var sb strings.Builder
		sb.WriteString(body)
		span := t.Span
		for {
			j := i + 1
			for j < len(toks) && toks[j].IsSpace() {
				j++
			}
			if j >= len(toks) || toks[j].Kind != token.String {
				break
			}
			i = j
			next := toks[j]
			nextEnc, nextBody, ok := ParsePrefix(next.Text, '"')
			if !ok {
				continue
			}
			joined, ok := enc.Join(nextEnc)
			if !ok {
				if reporter != nil {
					diag.ReportError(reporter, diag.LexIncompatibleEncoding, next.Span,
						fmt.Sprintf("incompatible encoding when concatenating; previously `%s` but found `%s`", enc, nextEnc)).Emit()
				}
				continue
			}
			enc = joined
			sb.WriteString(nextBody)
			span = span.Cover(next.Span)
		}
		t.Text = enc.Prefix() + `"` + sb.String() + `"`
		t.Span = span
		out = append(out, t)
	}
	return out
}
