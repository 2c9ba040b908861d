// Package css parses stylesheets: a tokenizer, a rule parser with local
// error recovery, selector matching against dom trees, and color/length
// value parsing. Parsing is total; malformed constructs are skipped.
package css

import "strings"

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenAtKeyword
	tokenHash
	tokenString
	tokenNumber
	tokenDelim
	tokenColon
	tokenSemicolon
	tokenComma
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenLParen
	tokenRParen
	tokenWhitespace
	tokenEOF
)

// token carries its source span so declaration values can be recovered
// verbatim from the input.
type token struct {
	kind       tokenKind
	value      string
	start, end int
}

type cssTokenizer struct {
	input string
	pos   int
}

func tokenize(src string) []token {
	z := cssTokenizer{input: src}
	var out []token
	for {
		t := z.next()
		out = append(out, t)
		if t.kind == tokenEOF {
			return out
		}
	}
}

func (z *cssTokenizer) next() token {
	z.skipComments()
	if z.pos >= len(z.input) {
		return token{kind: tokenEOF, start: z.pos, end: z.pos}
	}
	start := z.pos
	c := z.input[z.pos]
	switch {
	case isCSSSpace(c):
		for z.pos < len(z.input) && isCSSSpace(z.input[z.pos]) {
			z.pos++
		}
		return token{kind: tokenWhitespace, value: " ", start: start, end: z.pos}
	case c == '{':
		z.pos++
		return token{kind: tokenLBrace, value: "{", start: start, end: z.pos}
	case c == '}':
		z.pos++
		return token{kind: tokenRBrace, value: "}", start: start, end: z.pos}
	case c == '[':
		z.pos++
		return token{kind: tokenLBracket, value: "[", start: start, end: z.pos}
	case c == ']':
		z.pos++
		return token{kind: tokenRBracket, value: "]", start: start, end: z.pos}
	case c == '(':
		z.pos++
		return token{kind: tokenLParen, value: "(", start: start, end: z.pos}
	case c == ')':
		z.pos++
		return token{kind: tokenRParen, value: ")", start: start, end: z.pos}
	case c == ':':
		z.pos++
		return token{kind: tokenColon, value: ":", start: start, end: z.pos}
	case c == ';':
		z.pos++
		return token{kind: tokenSemicolon, value: ";", start: start, end: z.pos}
	case c == ',':
		z.pos++
		return token{kind: tokenComma, value: ",", start: start, end: z.pos}
	case c == '"' || c == '\'':
		return z.readString(c)
	case c == '#':
		z.pos++
		name := z.readName()
		return token{kind: tokenHash, value: name, start: start, end: z.pos}
	case c == '@':
		z.pos++
		name := z.readName()
		return token{kind: tokenAtKeyword, value: strings.ToLower(name), start: start, end: z.pos}
	case isDigit(c) || (c == '.' && z.digitAt(z.pos+1)),
		(c == '+' || c == '-') && (z.digitAt(z.pos+1) || (z.byteAt(z.pos+1) == '.' && z.digitAt(z.pos+2))):
		return z.readNumber(start)
	case isNameStart(c):
		name := z.readName()
		return token{kind: tokenIdent, value: strings.ToLower(name), start: start, end: z.pos}
	default:
		z.pos++
		return token{kind: tokenDelim, value: string(c), start: start, end: z.pos}
	}
}

func (z *cssTokenizer) skipComments() {
	for strings.HasPrefix(z.input[z.pos:], "/*") {
		end := strings.Index(z.input[z.pos+2:], "*/")
		if end < 0 {
			z.pos = len(z.input)
			return
		}
		z.pos += 2 + end + 2
	}
}

func (z *cssTokenizer) readString(quote byte) token {
	start := z.pos
	z.pos++
	var b strings.Builder
	for z.pos < len(z.input) {
		c := z.input[z.pos]
		if c == quote {
			z.pos++
			break
		}
		if c == '\\' && z.pos+1 < len(z.input) {
			z.pos++
			b.WriteByte(z.input[z.pos])
			z.pos++
			continue
		}
		if c == '\n' {
			break // unterminated string ends at the newline
		}
		b.WriteByte(c)
		z.pos++
	}
	return token{kind: tokenString, value: b.String(), start: start, end: z.pos}
}

// readNumber consumes a number with any trailing unit or '%'; the unit
// stays in the token text and is split apart by ParseLength.
func (z *cssTokenizer) readNumber(start int) token {
	if c := z.input[z.pos]; c == '+' || c == '-' {
		z.pos++
	}
	for z.pos < len(z.input) && isDigit(z.input[z.pos]) {
		z.pos++
	}
	if z.byteAt(z.pos) == '.' && z.digitAt(z.pos+1) {
		z.pos++
		for z.pos < len(z.input) && isDigit(z.input[z.pos]) {
			z.pos++
		}
	}
	if z.byteAt(z.pos) == '%' {
		z.pos++
	} else {
		for z.pos < len(z.input) && isNameChar(z.input[z.pos]) {
			z.pos++
		}
	}
	return token{kind: tokenNumber, value: strings.ToLower(z.input[start:z.pos]), start: start, end: z.pos}
}

func (z *cssTokenizer) readName() string {
	start := z.pos
	for z.pos < len(z.input) && isNameChar(z.input[z.pos]) {
		z.pos++
	}
	return z.input[start:z.pos]
}

func (z *cssTokenizer) byteAt(i int) byte {
	if i >= len(z.input) {
		return 0
	}
	return z.input[i]
}

func (z *cssTokenizer) digitAt(i int) bool {
	return i < len(z.input) && isDigit(z.input[i])
}

func isCSSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}
