package token

import (
	"ppfront/internal/source"
)

// ExpansionID indexes a macro invocation in the unit's provenance arena.
// NoExpansion means the token was read straight from a buffer.
type ExpansionID uint32

const NoExpansion ExpansionID = 0

// BodyArg marks Origin.Arg of tokens copied from a replacement list.
const BodyArg int16 = -1

// Origin is the macro dimension of a token's history.
type Origin struct {
	Expansion ExpansionID
	Arg       int16  // номер аргумента или BodyArg
	Index     uint32 // позиция внутри аргумента или тела
}

// Token is a preprocessing token. Span is where the spelling physically lives
// (definition site for replacement-list tokens); Origin links macro history.
type Token struct {
	Kind   Kind
	Text   string
	Span   source.Span
	Origin Origin
	Hide   HideSet
}

// FromMacro reports whether the token was produced by an expansion.
func (t Token) FromMacro() bool { return t.Origin.Expansion != NoExpansion }

// IsSpace reports whitespace or newline.
func (t Token) IsSpace() bool { return t.Kind == Whitespace || t.Kind == Newline }

// IsPunct reports a punctuator with the given spelling.
func (t Token) IsPunct(text string) bool { return t.Kind == Punct && t.Text == text }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// Describe renders the token for "found X" messages: `spelling`, or the kind name
// for tokens without a useful spelling.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF, Newline:
		return t.Kind.String()
	}
	return "`" + t.Text + "`"
}
