package source

import (
	"fmt"
)

// Position is an absolute byte offset inside one buffer.
type Position struct {
	File   FileID
	Offset uint32
}

// Span is a contiguous byte range inside one buffer.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// SpanAt builds a span of n bytes starting at pos.
func SpanAt(pos Position, n uint32) Span {
	return Span{File: pos.File, Start: pos.Offset, End: pos.Offset + n}
}

func (s Span) Pos() Position {
	return Position{File: s.File, Offset: s.Start}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover расширяет s до other; спаны из разных файлов не объединяются.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Collapse returns the empty span at the start of s.
func (s Span) Collapse() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}
