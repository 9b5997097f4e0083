// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ppfront/internal/provenance"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a token sequence:
// 1) the sequence ends with exactly one EOF
// 2) every span is ordered and within its file's content bounds
// 3) tokens that did not come from an expansion appear in source order per file
// 4) no token except EOF has an empty spelling
func CheckTokenInvariants(fs *source.FileSet, toks []token.Token) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token sequence")
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("last token is %s, want EOF", last.Kind)
	}
	lastEnd := make(map[source.FileID]uint32)
	for i, tok := range toks {
		if tok.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at %d before the end", i)
		}
		if tok.Kind != token.EOF && tok.Text == "" {
			return fmt.Errorf("token %d (%s) has an empty spelling", i, tok.Kind)
		}
		if err := checkSpan(fs, tok.Span); err != nil {
			return fmt.Errorf("token %d %q: %w", i, tok.Text, err)
		}
		if tok.FromMacro() || tok.Kind == token.EOF {
			continue
		}
		// синтезированные токены (newline перед EOF) могут иметь пустой span
		if tok.Span.Start < lastEnd[tok.Span.File] && !tok.Span.Empty() {
			return fmt.Errorf("token %d %q at %v goes back before offset %d", i, tok.Text, tok.Span, lastEnd[tok.Span.File])
		}
		lastEnd[tok.Span.File] = max(lastEnd[tok.Span.File], tok.Span.End)
	}
	return nil
}

// CheckProvenance verifies that every expanded token resolves to a root
// span inside a real file.
func CheckProvenance(fs *source.FileSet, arena *provenance.Arena, toks []token.Token) error {
	for i, tok := range toks {
		if !tok.FromMacro() {
			continue
		}
		if _, ok := arena.Invocation(tok.Origin.Expansion); !ok {
			return fmt.Errorf("token %d %q: unknown expansion %d", i, tok.Text, tok.Origin.Expansion)
		}
		if err := checkSpan(fs, arena.RootSpan(tok)); err != nil {
			return fmt.Errorf("token %d %q root span: %w", i, tok.Text, err)
		}
	}
	return nil
}

func checkSpan(fs *source.FileSet, sp source.Span) error {
	if int(sp.File) >= fs.Len() {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("span %v is reversed", sp)
	}
	lenContent, err := safecast.Conv[uint32](len(fs.Get(sp.File).Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("span %v ends beyond content (%d)", sp, lenContent)
	}
	return nil
}
