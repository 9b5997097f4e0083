// Package chars implements translation phases 1 and 2: trigraph replacement
// and line splicing over a span-annotated character stream.
package chars

import (
	"strings"

	"fortio.org/safecast"

	"ppfront/internal/source"
)

// Char is one source character of the logical text with the span it was read from.
type Char struct {
	Value byte
	Span  source.Span
}

// FromFile splits the file content into one Char per byte.
func FromFile(f *source.File) []Char {
	out := make([]Char, len(f.Content))
	for i, b := range f.Content {
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(err)
		}
		out[i] = Char{Value: b, Span: source.Span{File: f.ID, Start: off, End: off + 1}}
	}
	return out
}

// String returns the concatenated values.
func String(cs []Char) string {
	var sb strings.Builder
	sb.Grow(len(cs))
	for _, c := range cs {
		sb.WriteByte(c.Value)
	}
	return sb.String()
}

// Equal compares values only; spans are ignored.
func Equal(a, b []Char) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}
