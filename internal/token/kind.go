package token

// Kind represents the category of a preprocessing token.
type Kind uint8

const (
	// EOF marks the end of the translation unit input.
	EOF Kind = iota
	// Whitespace is a run of blanks or one comment.
	Whitespace
	// Newline is a single '\n'; directives are line oriented.
	Newline
	Identifier
	// Number is a pp-number.
	Number
	CharConst
	String
	Punct
	// Other is any byte that forms no other token.
	Other
)

var kindNames = [...]string{
	EOF:        "end-of-file",
	Whitespace: "whitespace",
	Newline:    "newline",
	Identifier: "identifier",
	Number:     "number",
	CharConst:  "character-constant",
	String:     "string-literal",
	Punct:      "punctuator",
	Other:      "other",
}

// String returns the name used in "found <kind> token" messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true // #nosec G115 -- kindNames короткий
		}
	}
	return EOF, false
}
