package chars

var trigraphs = [256]byte{
	'=':  '#',
	'(':  '[',
	'/':  '\\',
	')':  ']',
	'\'': '^',
	'<':  '{',
	'!':  '|',
	'>':  '}',
	'-':  '~',
}

// ConvertTrigraphs replaces the nine ??x sequences. The produced Char spans all three
// source characters.
func ConvertTrigraphs(in []Char) []Char {
	out := make([]Char, 0, len(in))
	for i := 0; i < len(in); i++ {
		if i+2 < len(in) && in[i].Value == '?' && in[i+1].Value == '?' {
			if r := trigraphs[in[i+2].Value]; r != 0 {
				out = append(out, Char{Value: r, Span: in[i].Span.Cover(in[i+2].Span)})
				i += 2
				continue
			}
		}
		out = append(out, in[i])
	}
	return out
}
