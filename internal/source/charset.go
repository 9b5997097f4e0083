package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Charset перекодирует входные байты в UTF-8 перед фазой 1.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// LookupCharset находит кодировку по имени (WHATWG/IANA). Пустое имя и utf-8 дают nil.
func LookupCharset(name string) (*Charset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "utf-8" || n == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(n)
	if err != nil {
		return nil, fmt.Errorf("unknown input charset %q: %w", name, err)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = n
	}
	return &Charset{name: canonical, enc: enc}, nil
}

func (c *Charset) Name() string {
	return c.name
}

// Decode returns content converted to UTF-8.
func (c *Charset) Decode(content []byte) ([]byte, error) {
	out, err := c.enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}
