package lexer

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r'
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func scanBlank(s string) int {
	n := 0
	for n < len(s) && isBlank(s[n]) {
		n++
	}
	return n
}

// scanComment распознаёт // до конца строки и /* ... */; незакрытый блок не комментарий.
func scanComment(s string) int {
	if len(s) < 2 || s[0] != '/' {
		return 0
	}
	switch s[1] {
	case '/':
		n := 2
		for n < len(s) && s[n] != '\n' {
			n++
		}
		return n
	case '*':
		for i := 2; i+1 < len(s); i++ {
			if s[i] == '*' && s[i+1] == '/' {
				return i + 2
			}
		}
	}
	return 0
}

func scanIdent(s string) int {
	if !isIdentStartByte(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && isIdentContinueByte(s[n]) {
		n++
	}
	return n
}

// pp-number: \.?[0-9]([eEpP][+-]|[A-Za-z0-9_]|\.)*
func scanNumber(s string) int {
	n := 0
	if s[0] == '.' {
		n = 1
	}
	if n >= len(s) || !isDec(s[n]) {
		return 0
	}
	n++
	for n < len(s) {
		c := s[n]
		switch {
		case (c == 'e' || c == 'E' || c == 'p' || c == 'P') && n+1 < len(s) && (s[n+1] == '+' || s[n+1] == '-'):
			n += 2
		case isIdentContinueByte(c) || c == '.':
			n++
		default:
			return n
		}
	}
	return n
}

// scanQuoted распознаёт символьную константу или строковый литерал с префиксом
// кодировки. Возвращает 0, если литерал не закрыт до конца строки.
func scanQuoted(s string, quote byte) int {
	n := 0
	switch {
	case quote == '"' && len(s) >= 3 && s[0] == 'u' && s[1] == '8' && s[2] == '"':
		n = 2
	case len(s) >= 2 && (s[0] == 'L' || s[0] == 'u' || s[0] == 'U') && s[1] == quote:
		n = 1
	}
	if n >= len(s) || s[n] != quote {
		return 0
	}
	n++
	for n < len(s) {
		switch s[n] {
		case quote:
			return n + 1
		case '\n':
			return 0
		case '\\':
			if n+1 >= len(s) || s[n+1] == '\n' {
				return 0
			}
			n += 2
		default:
			n++
		}
	}
	return 0
}

// Жадность: сначала 4-символьные, затем 3, 2 и 1.
var punctuators = [...][]string{
	{"%:%:"},
	{"...", "<<=", ">>="},
	{"->", "++", "--", "<=", ">=", "==", "!=", "&&", "||", "*=", "/=", "%=", "+=", "-=",
		"&=", "^=", "|=", "##", "<:", ":>", "<%", "%>", "%:", "<<", ">>"},
}

const singlePunct = "[](){}?;,#<>!:&*+-~/%^|=."

func scanPunct(s string) int {
	for _, group := range punctuators {
		for _, p := range group {
			if len(s) >= len(p) && s[:len(p)] == p {
				return len(p)
			}
		}
	}
	for i := 0; i < len(singlePunct); i++ {
		if s[0] == singlePunct[i] {
			return 1
		}
	}
	return 0
}
