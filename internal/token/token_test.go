package token_test

import (
	"testing"

	"ppfront/internal/source"
	"ppfront/internal/token"
)

func tk(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Text: text}
}

var (
	ws = tk(token.Whitespace, " ")
	nl = tk(token.Newline, "\n")
	eof = tk(token.EOF, "")
)

func TestKindString(t *testing.T) {
	tests := map[token.Kind]string{
		token.EOF:        "end-of-file",
		token.Identifier: "identifier",
		token.CharConst:  "character-constant",
		token.String:     "string-literal",
		token.Newline:    "newline",
		token.Kind(200):  "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q; want %q", k, got, want)
		}
		if k != token.Kind(200) {
			if back, ok := token.ParseKind(want); !ok || back != k {
				t.Errorf("ParseKind(%q) = %v,%v", want, back, ok)
			}
		}
	}
}

func TestLooseEqual(t *testing.T) {
	a := []token.Token{tk(token.Identifier, "a"), ws, ws, tk(token.Punct, "+"), nl, eof}
	b := []token.Token{ws, tk(token.Identifier, "a"), tk(token.Punct, "+"), eof}
	if !token.LooseEqual(a, b) {
		t.Error("expected loose equality")
	}
	c := []token.Token{tk(token.Identifier, "a"), tk(token.Identifier, "+"), eof}
	if token.LooseEqual(a, c) {
		t.Error("kind difference must matter")
	}
	if token.LooseEqual(a, a[:len(a)-1]) {
		t.Error("EOF must take part in comparison")
	}
	// пустой вход: только EOF, и это не то же самое, что пустая последовательность
	if token.LooseEqual([]token.Token{eof}, nil) {
		t.Error("[EOF] must differ from nothing")
	}
}

func TestSameSpelling(t *testing.T) {
	id := func(s string) token.Token { return tk(token.Identifier, s) }
	tests := []struct {
		name string
		a, b []token.Token
		want bool
	}{
		{"ws runs", []token.Token{id("a"), ws, ws, id("b")}, []token.Token{id("a"), ws, id("b")}, true},
		{"trim", []token.Token{ws, id("a")}, []token.Token{id("a"), ws}, true},
		{"missing ws", []token.Token{id("a"), ws, id("b")}, []token.Token{id("a"), tk(token.Punct, "b")}, false},
		{"spacing", []token.Token{id("a"), ws, tk(token.Punct, "+")}, []token.Token{id("a"), tk(token.Punct, "+")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := token.SameSpelling(tt.a, tt.b); got != tt.want {
				t.Errorf("SameSpelling = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	toks := []token.Token{ws, tk(token.Identifier, "a"), ws, ws, tk(token.Punct, "+"), tk(token.Number, "1"), nl, eof}
	if got := token.Render(toks); got != " a +1\n" {
		t.Errorf("Render = %q", got)
	}
	if got := token.Spell(token.Trim(toks[:len(toks)-1])); got != "a  +1" {
		t.Errorf("Spell(Trim) = %q", got)
	}
}

func TestHideSet(t *testing.T) {
	var h token.HideSet
	a := h.With(source.StringID(3)).With(source.StringID(1)).With(source.StringID(3))
	if len(a) != 2 || a[0] != 1 || a[1] != 3 {
		t.Fatalf("With = %v", a)
	}
	if len(h) != 0 {
		t.Error("receiver must not change")
	}
	b := token.HideSet{2, 3}
	if u := a.Union(b); len(u) != 3 || !u.Has(2) || !u.Has(1) {
		t.Errorf("Union = %v", u)
	}
	if i := a.Intersect(b); len(i) != 1 || !i.Has(3) {
		t.Errorf("Intersect = %v", i)
	}
	if a.Has(2) {
		t.Error("Has(2) on {1,3}")
	}
}

func TestDescribe(t *testing.T) {
	if got := tk(token.Punct, ")").Describe(); got != "`)`" {
		t.Errorf("Describe = %q", got)
	}
	if got := nl.Describe(); got != "newline" {
		t.Errorf("Describe newline = %q", got)
	}
}
