package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ppfront/internal/diag"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

type collector struct{ msgs []string }

func (c *collector) Report(_ diag.Code, _ diag.Severity, _ source.Span, msg string, _ []diag.Note) {
	c.msgs = append(c.msgs, msg)
}

func str(text string) token.Token  { return token.Token{Kind: token.String, Text: text} }
func char(text string) token.Token { return token.Token{Kind: token.CharConst, Text: text} }

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   token.Token
		want string
		msgs []string
	}{
		{name: "plain", in: str(`"abc"`), want: `"abc"`},
		{name: "simple", in: str(`"a\tb\n"`), want: "\"a\tb\n\""},
		{name: "quote", in: char(`'\''`), want: `'''`},
		{name: "octal", in: str(`"\101\0"`), want: "\"A\x00\""},
		{name: "octal stops after three", in: str(`"\1011"`), want: `"A1"`},
		{name: "hex", in: str(`"\x41"`), want: `"A"`},
		{name: "utf-8 text untouched", in: str(`u8"é"`), want: `u8"é"`},
		{name: "ucn", in: str(`"\u00e9"`), want: `"é"`},
		{name: "prefix kept", in: char(`L'\x41'`), want: `L'A'`},
		{
			name: "unknown escape",
			in:   str(`"\q"`),
			want: `""`,
			msgs: []string{"`\\q` is not a valid escape"},
		},
		{
			name: "hex without digits",
			in:   str(`"\xg"`),
			want: `"g"`,
			msgs: []string{"expected character after escape sequence"},
		},
		{
			name: "short ucn",
			in:   str(`"\u12"`),
			want: `""`,
			msgs: []string{"expected 4 digits after `\\u`; found 2"},
		},
		{
			name: "hex out of range",
			in:   str(`"\x123"`),
			want: `""`,
			msgs: []string{"`\\x123` exceeds range of type (unsigned char)"},
		},
		{
			name: "wide hex fits",
			in:   str(`L"\x123"`),
			want: "L\"ģ\"",
		},
		{
			name: "surrogate",
			in:   str(`"\uD800"`),
			want: `""`,
			msgs: []string{"`\\uD800` cannot be represented"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c collector
			got := Unescape([]token.Token{tt.in}, &c)
			if got[0].Text != tt.want {
				t.Errorf("text = %q, want %q", got[0].Text, tt.want)
			}
			if diff := cmp.Diff(tt.msgs, c.msgs); diff != "" {
				t.Errorf("messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConcatenate(t *testing.T) {
	ws := token.Token{Kind: token.Whitespace, Text: " "}
	nl := token.Token{Kind: token.Newline, Text: "\n"}
	ident := token.Token{Kind: token.Identifier, Text: "x"}

	tests := []struct {
		name string
		in   []token.Token
		want []string
		msgs []string
	}{
		{name: "single", in: []token.Token{str(`"a"`), nl}, want: []string{`"a"`}},
		{name: "pair", in: []token.Token{str(`"a"`), ws, nl, str(`"b"`)}, want: []string{`"ab"`}},
		{name: "default adopts prefix", in: []token.Token{str(`"a"`), str(`L"b"`), str(`"c"`)}, want: []string{`L"abc"`}},
		{name: "separated", in: []token.Token{str(`"a"`), ident, str(`"b"`)}, want: []string{`"a"`, "x", `"b"`}},
		{
			name: "incompatible",
			in:   []token.Token{str(`u8"a"`), str(`L"b"`), str(`"c"`)},
			want: []string{`u8"ac"`},
			msgs: []string{"incompatible encoding when concatenating; previously `utf-8` but found `wide`"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c collector
			out := Concatenate(tt.in, &c)
			got := make([]string, len(out))
			for i, tok := range out {
				got[i] = tok.Text
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.msgs, c.msgs); diff != "" {
				t.Errorf("messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodingJoin(t *testing.T) {
	if e, ok := Default.Join(UTF8); !ok || e != UTF8 {
		t.Fatalf("Default.Join(UTF8) = %v, %v", e, ok)
	}
	if e, ok := WChar.Join(Default); !ok || e != WChar {
		t.Fatalf("WChar.Join(Default) = %v, %v", e, ok)
	}
	if _, ok := Char16.Join(Char32); ok {
		t.Fatal("u and U must not combine")
	}
}
