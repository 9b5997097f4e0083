package lexer

// Cursor представляет собой позицию в логическом тексте после фаз 1-2.
type Cursor struct {
	Text string
	Off  int
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.Text)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	return c.At(0)
}

// At читает байт со смещением n от текущей позиции или 0 за концом.
func (c *Cursor) At(n int) byte {
	if c.Off+n >= len(c.Text) {
		return 0
	}
	return c.Text[c.Off+n]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// HasPrefix reports whether the rest of the text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.Text)-c.Off >= len(s) && c.Text[c.Off:c.Off+len(s)] == s
}
