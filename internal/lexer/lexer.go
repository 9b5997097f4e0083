// Package lexer implements translation phase 3: grouping the logical characters
// of one buffer into preprocessing tokens by maximal munch.
package lexer

import (
	"ppfront/internal/chars"
	"ppfront/internal/diag"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

type Lexer struct {
	chars  []chars.Char
	cursor Cursor
	opts   Options
	file   source.FileID
}

// New prepares a lexer over the output of phase 2. file is used for the EOF span
// when chars is empty.
func New(file source.FileID, cs []chars.Char, opts Options) *Lexer {
	return &Lexer{
		chars:  cs,
		cursor: Cursor{Text: chars.String(cs)},
		opts:   opts,
		file:   file,
	}
}

// Tokenize runs phase 3 over the whole buffer. The result always ends with a
// newline token followed by EOF, unless the buffer is empty, which gives just EOF.
func Tokenize(file source.FileID, cs []chars.Char, opts Options) []token.Token {
	lx := New(file, cs, opts)
	out := make([]token.Token, 0, len(cs)/3+2)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			if n := len(out); n > 0 && out[n-1].Kind != token.Newline {
				out = append(out, token.Token{Kind: token.Newline, Text: "\n", Span: tok.Span})
			}
			return append(out, tok)
		}
		out = append(out, tok)
	}
}

// Next возвращает следующий токен. После конца всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	start := lx.cursor.Off
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.span(start, start)}
	}

	n, kind := munch(lx.cursor.Text[start:])
	switch {
	case kind == token.Other && (lx.cursor.Peek() == '\'' || lx.cursor.Peek() == '"'):
		// незакрытый литерал: пропускаем до конца строки
		quote := lx.cursor.Peek()
		n = 1
		for start+n < len(lx.cursor.Text) && lx.cursor.Text[start+n] != '\n' {
			n++
		}
		code := diag.LexUnterminatedChar
		if quote == '"' {
			code = diag.LexUnterminatedString
		}
		lx.report(code, start, start+1, "missing closing "+string(quote)+" terminator")
	case kind == token.Punct && lx.cursor.HasPrefix("/*"):
		lx.report(diag.LexUnterminatedComment, start, start+2, "unterminated comment")
	}
	lx.cursor.Off += n
	return lx.emit(kind, start)
}

func (lx *Lexer) emit(kind token.Kind, start int) token.Token {
	end := lx.cursor.Off
	return token.Token{
		Kind: kind,
		Text: lx.cursor.Text[start:end],
		Span: lx.span(start, end),
	}
}

func (lx *Lexer) span(start, end int) source.Span {
	if start >= len(lx.chars) {
		if len(lx.chars) == 0 {
			return source.Span{File: lx.file}
		}
		last := lx.chars[len(lx.chars)-1].Span
		return source.Span{File: last.File, Start: last.End, End: last.End}
	}
	if end <= start {
		return lx.chars[start].Span.Collapse()
	}
	return lx.chars[start].Span.Cover(lx.chars[end-1].Span)
}

// LexOne returns the length and kind of the longest token at the start of text.
// An empty text gives (0, EOF).
func LexOne(text string) (int, token.Kind) {
	if text == "" {
		return 0, token.EOF
	}
	return munch(text)
}

// munch выбирает самый длинный токен; при равной длине побеждает более поздний
// класс в порядке other, whitespace, comment, identifier, number, char, string, punct.
func munch(text string) (int, token.Kind) {
	best, kind := 1, token.Other
	try := func(n int, k token.Kind) {
		if n > 0 && n >= best {
			best, kind = n, k
		}
	}
	switch text[0] {
	case '\n':
		return 1, token.Newline
	}
	try(scanBlank(text), token.Whitespace)
	try(scanComment(text), token.Whitespace)
	try(scanIdent(text), token.Identifier)
	try(scanNumber(text), token.Number)
	try(scanQuoted(text, '\''), token.CharConst)
	try(scanQuoted(text, '"'), token.String)
	try(scanPunct(text), token.Punct)
	return best, kind
}
