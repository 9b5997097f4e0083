package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"ppfront/internal/source"
	"ppfront/internal/token"
)

type TokenOutput struct {
	Kind     string        `json:"kind"`
	Text     string        `json:"text,omitempty"`
	Span     source.Span   `json:"span"`
	Location *LocationJSON `json:"location,omitempty"`
	Expanded bool          `json:"expanded,omitempty"`
	NotNFC   bool          `json:"not_nfc,omitempty"`
}

// notNFC отмечает токены, написание которых не в NFC: визуально одинаковые
// литералы с ними побайтно не совпадут.
func notNFC(tok token.Token) bool {
	return !norm.NFC.IsNormalString(tok.Text)
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-18s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if tok.FromMacro() {
			fmt.Fprint(w, " (expanded)")
		}
		if notNFC(tok) {
			fmt.Fprint(w, " (not NFC)")
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Expanded: tok.FromMacro(),
			NotNFC:   notNFC(tok),
		}
		if fs != nil && int(tok.Span.File) < fs.Len() {
			loc := makeLocation(tok.Span, fs, JSONOpts{IncludePositions: true})
			out.Location = &loc
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
