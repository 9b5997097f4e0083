// Package literal implements translation phases 5 and 6: escape sequences in
// character constants and string literals, and concatenation of adjacent
// string literals.
package literal

import "strings"

// Encoding is the prefix class of a literal.
type Encoding uint8

const (
	Default Encoding = iota
	Char16           // u
	Char32           // U
	WChar            // L
	UTF8             // u8
)

// ParsePrefix splits a literal spelling into its encoding, delimiter-free body
// and reports ok=false when text is not a quoted literal.
func ParsePrefix(text string, quote byte) (Encoding, string, bool) {
	i := strings.IndexByte(text, quote)
	if i < 0 || len(text) < i+2 || text[len(text)-1] != quote {
		return Default, "", false
	}
	var enc Encoding
	switch text[:i] {
	case "":
		enc = Default
	case "u":
		enc = Char16
	case "U":
		enc = Char32
	case "L":
		enc = WChar
	case "u8":
		enc = UTF8
	default:
		return Default, "", false
	}
	return enc, text[i+1 : len(text)-1], true
}

// Size is the code unit size in bytes.
func (e Encoding) Size() int {
	switch e {
	case Char16:
		return 2
	case Char32, WChar:
		return 4
	}
	return 1
}

// TypeName is the C type of one code unit.
func (e Encoding) TypeName() string {
	switch e {
	case Char16:
		return "char16_t"
	case Char32:
		return "char32_t"
	case WChar:
		return "wchar_t"
	}
	return "unsigned char"
}

func (e Encoding) Prefix() string {
	switch e {
	case Char16:
		return "u"
	case Char32:
		return "U"
	case WChar:
		return "L"
	case UTF8:
		return "u8"
	}
	return ""
}

func (e Encoding) String() string {
	switch e {
	case Char16:
		return "universal 16"
	case Char32:
		return "universal 32"
	case WChar:
		return "wide"
	case UTF8:
		return "utf-8"
	}
	return "default"
}

// Join returns the encoding of e concatenated with o. A default literal takes
// the other side's encoding; two different prefixes do not combine.
func (e Encoding) Join(o Encoding) (Encoding, bool) {
	switch {
	case e == Default:
		return o, true
	case o == Default:
		return e, true
	}
	return e, e == o
}
