package include

import (
	"ppfront/internal/source"
)

// MaxDepth is the number of nested includes allowed below the main file.
const MaxDepth = 32

// Entry is one open buffer: Directive is the span of the #include filename that opened
// it (zero for the main file).
type Entry struct {
	Path      string
	File      source.FileID
	Directive source.Span
}

// Stack is the inclusion stack of one translation unit.
type Stack struct {
	max     int
	entries []Entry
	once    map[string]struct{}
}

// NewStack creates a stack with the main file pushed; max <= 0 means MaxDepth.
func NewStack(main Entry, max int) *Stack {
	if max <= 0 {
		max = MaxDepth
	}
	return &Stack{max: max, entries: []Entry{main}, once: make(map[string]struct{})}
}

// Depth of the innermost open file; the main file is depth 0.
func (s *Stack) Depth() int {
	return len(s.entries) - 1
}

// CanPush reports whether the innermost file may include another one.
func (s *Stack) CanPush() bool {
	return s.Depth() < s.max
}

// Push opens an included file.
func (s *Stack) Push(e Entry) error {
	if !s.CanPush() {
		return ErrDepthExceeded
	}
	s.entries = append(s.entries, e)
	return nil
}

// Pop closes the innermost included file. The main file is never popped.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) <= 1 {
		return Entry{}, false
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e, true
}

func (s *Stack) Top() Entry {
	return s.entries[len(s.entries)-1]
}

// Entries returns the open files from the main file inwards.
func (s *Stack) Entries() []Entry {
	return s.entries
}

// MarkOnce records a #pragma once file.
func (s *Stack) MarkOnce(path string) {
	s.once[path] = struct{}{}
}

func (s *Stack) IsOnce(path string) bool {
	_, ok := s.once[path]
	return ok
}
