package dom

import "strings"

type tokenType int

const (
	textToken tokenType = iota
	startTagToken
	endTagToken
	commentToken
	eofToken
)

type token struct {
	typ         tokenType
	data        string // tag name, text, or comment body
	attrs       []Attribute
	selfClosing bool
}

// tokenizer walks the input byte by byte. Every path through next()
// either advances pos or returns EOF, so tokenizing always terminates.
type tokenizer struct {
	input string
	pos   int
}

func newTokenizer(input string) *tokenizer {
	return &tokenizer{input: input}
}

func (z *tokenizer) next() token {
	if z.pos >= len(z.input) {
		return token{typ: eofToken}
	}
	if z.input[z.pos] == '<' && z.tagAhead() {
		return z.readMarkup()
	}
	return z.readText()
}

// tagAhead reports whether the '<' at pos opens markup rather than
// being a stray literal.
func (z *tokenizer) tagAhead() bool {
	if z.pos+1 >= len(z.input) {
		return false
	}
	c := z.input[z.pos+1]
	return isLetter(c) || c == '/' || c == '!' || c == '?'
}

// readText is the data state: accumulate until a real tag opens,
// decoding character references as they appear.
func (z *tokenizer) readText() token {
	var b strings.Builder
	for z.pos < len(z.input) {
		c := z.input[z.pos]
		if c == '<' && z.tagAhead() {
			break
		}
		if c == '&' {
			b.WriteString(z.readCharacterReference())
			continue
		}
		b.WriteByte(c)
		z.pos++
	}
	return token{typ: textToken, data: b.String()}
}

// readMarkup is the tag-open state: pos is at '<' and something
// tag-like follows.
func (z *tokenizer) readMarkup() token {
	z.pos++ // consume '<'
	c := z.input[z.pos]
	switch {
	case c == '!':
		if strings.HasPrefix(z.input[z.pos:], "!--") {
			z.pos += 3
			return z.readComment()
		}
		// DOCTYPE and other declarations are skipped.
		z.skipBogus()
		return z.next()
	case c == '?':
		// Processing instructions (<?xml ...?>) are skipped.
		z.skipBogus()
		return z.next()
	case c == '/':
		z.pos++
		name := z.readTagName()
		z.skipBogus()
		if name == "" {
			return z.next()
		}
		return token{typ: endTagToken, data: name}
	default:
		tok := token{typ: startTagToken, data: z.readTagName()}
		tok.attrs, tok.selfClosing = z.readAttributes()
		return tok
	}
}

func (z *tokenizer) readComment() token {
	start := z.pos
	if i := strings.Index(z.input[z.pos:], "-->"); i >= 0 {
		z.pos += i + 3
		return token{typ: commentToken, data: z.input[start : z.pos-3]}
	}
	z.pos = len(z.input)
	return token{typ: commentToken, data: z.input[start:]}
}

// skipBogus consumes through the next '>' (or EOF).
func (z *tokenizer) skipBogus() {
	for z.pos < len(z.input) && z.input[z.pos] != '>' {
		z.pos++
	}
	if z.pos < len(z.input) {
		z.pos++
	}
}

// readTagName is the tag-name state.
func (z *tokenizer) readTagName() string {
	start := z.pos
	for z.pos < len(z.input) && isTagNameChar(z.input[z.pos]) {
		z.pos++
	}
	return strings.ToLower(z.input[start:z.pos])
}

// readAttributes covers the before-attribute-name, attribute-name,
// attribute-value and self-closing-start states. Duplicate attribute
// names keep the first value.
func (z *tokenizer) readAttributes() ([]Attribute, bool) {
	var attrs []Attribute
	for {
		z.skipWhitespace()
		if z.pos >= len(z.input) {
			return attrs, false
		}
		switch z.input[z.pos] {
		case '>':
			z.pos++
			return attrs, false
		case '/':
			z.pos++
			z.skipWhitespace()
			if z.pos < len(z.input) && z.input[z.pos] == '>' {
				z.pos++
				return attrs, true
			}
			continue // stray '/' inside a tag
		}
		name := z.readAttributeName()
		if name == "" {
			z.pos++ // junk byte, keep moving
			continue
		}
		var value string
		z.skipWhitespace()
		if z.pos < len(z.input) && z.input[z.pos] == '=' {
			z.pos++
			z.skipWhitespace()
			value = z.readAttributeValue()
		}
		if _, dup := lookupAttr(attrs, name); !dup {
			attrs = append(attrs, Attribute{Name: name, Value: value})
		}
	}
}

func (z *tokenizer) readAttributeName() string {
	start := z.pos
	for z.pos < len(z.input) && isAttrNameChar(z.input[z.pos]) {
		z.pos++
	}
	return strings.ToLower(z.input[start:z.pos])
}

func (z *tokenizer) readAttributeValue() string {
	if z.pos >= len(z.input) {
		return ""
	}
	var b strings.Builder
	if q := z.input[z.pos]; q == '"' || q == '\'' {
		z.pos++
		for z.pos < len(z.input) && z.input[z.pos] != q {
			if z.input[z.pos] == '&' {
				b.WriteString(z.readCharacterReference())
				continue
			}
			b.WriteByte(z.input[z.pos])
			z.pos++
		}
		if z.pos < len(z.input) {
			z.pos++ // closing quote
		}
		return b.String()
	}
	for z.pos < len(z.input) {
		c := z.input[z.pos]
		if isWhitespace(c) || c == '>' {
			break
		}
		if c == '&' {
			b.WriteString(z.readCharacterReference())
			continue
		}
		b.WriteByte(c)
		z.pos++
	}
	return b.String()
}

// rawText reads until the matching case-insensitive end tag, for
// elements whose content never nests markup (script, style, title,
// textarea). The end tag itself is consumed.
func (z *tokenizer) rawText(tag string) string {
	needle := "</" + tag
	lower := strings.ToLower(z.input[z.pos:])
	i := strings.Index(lower, needle)
	if i < 0 {
		content := z.input[z.pos:]
		z.pos = len(z.input)
		return content
	}
	content := z.input[z.pos : z.pos+i]
	z.pos += i
	z.skipBogus() // consume "</tag ...>"
	return content
}

func (z *tokenizer) skipWhitespace() {
	for z.pos < len(z.input) && isWhitespace(z.input[z.pos]) {
		z.pos++
	}
}

func lookupAttr(attrs []Attribute, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttrNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
