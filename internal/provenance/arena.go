// Package provenance records where tokens came from in two independent
// dimensions: the file-inclusion chain (which buffer, included from where) and
// the macro-expansion chain (which invocation produced a token). Records live
// in one arena per translation unit and are referenced by ID, never by pointer.
package provenance

import (
	"ppfront/internal/macro"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

// FileRecord describes how a buffer entered the translation unit.
type FileRecord struct {
	File source.FileID
	// IncludedAt is the span of the #include target in the includer; Root is
	// true for the main file and synthesized buffers.
	IncludedAt source.Span
	Root       bool
	Depth      int
}

// Invocation is one macro expansion.
type Invocation struct {
	Macro *macro.Macro
	// Name is the identifier token that triggered the expansion, with its own origin.
	Name token.Token
	// Args are the raw arguments as collected at the call site.
	Args [][]token.Token
}

// Arena owns the history tables of one translation unit.
type Arena struct {
	files       map[source.FileID]FileRecord
	invocations []Invocation
}

func NewArena() *Arena {
	return &Arena{files: make(map[source.FileID]FileRecord)}
}

// AddRootFile records the main file or a synthesized buffer.
func (a *Arena) AddRootFile(id source.FileID) {
	a.files[id] = FileRecord{File: id, Root: true}
}

// AddIncludedFile records a buffer opened by #include at the given span.
func (a *Arena) AddIncludedFile(id source.FileID, at source.Span) FileRecord {
	parent := a.files[at.File]
	rec := FileRecord{File: id, IncludedAt: at, Depth: parent.Depth + 1}
	a.files[id] = rec
	return rec
}

func (a *Arena) File(id source.FileID) (FileRecord, bool) {
	rec, ok := a.files[id]
	return rec, ok
}

// AddInvocation stores an expansion and returns its ID (never NoExpansion).
func (a *Arena) AddInvocation(inv Invocation) token.ExpansionID {
	a.invocations = append(a.invocations, inv)
	return token.ExpansionID(len(a.invocations)) // #nosec G115 -- ограничено размером входа
}

// Invocation returns the record for id; ok is false for NoExpansion or unknown ids.
func (a *Arena) Invocation(id token.ExpansionID) (Invocation, bool) {
	if id == token.NoExpansion || int(id) > len(a.invocations) {
		return Invocation{}, false
	}
	return a.invocations[id-1], true
}

func (a *Arena) Invocations() int {
	return len(a.invocations)
}
