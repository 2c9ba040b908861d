package dom

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedEntities is the pragmatic set of references real pages lean on.
// Anything not listed passes through literally.
var namedEntities = map[string]rune{
	"amp":    '&',
	"lt":     '<',
	"gt":     '>',
	"quot":   '"',
	"apos":   '\'',
	"nbsp":   ' ',
	"copy":   '©',
	"reg":    '®',
	"trade":  '™',
	"deg":    '°',
	"middot": '·',
	"bull":   '•',
	"hellip": '…',
	"ndash":  '–',
	"mdash":  '—',
	"lsquo":  '‘',
	"rsquo":  '’',
	"ldquo":  '“',
	"rdquo":  '”',
	"laquo":  '«',
	"raquo":  '»',
	"times":  '×',
	"divide": '÷',
	"plusmn": '±',
	"frac12": '½',
	"frac14": '¼',
	"sup2":   '²',
	"sup3":   '³',
	"micro":  'µ',
	"para":   '¶',
	"sect":   '§',
	"cent":   '¢',
	"pound":  '£',
	"euro":   '€',
	"yen":    '¥',
	"dagger": '†',
	"larr":   '←',
	"uarr":   '↑',
	"rarr":   '→',
	"darr":   '↓',
	"harr":   '↔',
	"minus":  '−',
	"shy":    '­',
	"ensp":   ' ',
	"emsp":   ' ',
	"thinsp": ' ',
}

// readCharacterReference is the character-reference state: pos is at
// '&'. On any malformed reference the '&' comes back literally and only
// that byte is consumed, so the caller always makes progress.
func (z *tokenizer) readCharacterReference() string {
	rest := z.input[z.pos+1:]
	if strings.HasPrefix(rest, "#") {
		if s, n := decodeNumericRef(rest[1:]); n > 0 {
			z.pos += 2 + n
			return s
		}
		z.pos++
		return "&"
	}
	// Longest-match against the named set; names are short so a bounded
	// scan is enough.
	end := 0
	for end < len(rest) && end < 32 && isTagNameChar(rest[end]) {
		end++
	}
	if end > 0 && end < len(rest) && rest[end] == ';' {
		if r, ok := namedEntities[rest[:end]]; ok {
			z.pos += 2 + end
			return string(r)
		}
	}
	z.pos++
	return "&"
}

// decodeNumericRef decodes the digits (and ';') after "&#", returning
// the decoded string and how many bytes of s were consumed.
func decodeNumericRef(s string) (string, int) {
	base := 10
	i := 0
	if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
		base = 16
		i++
	}
	start := i
	for i < len(s) && i-start < 8 && isDigitBase(s[i], base) {
		i++
	}
	if i == start || i >= len(s) || s[i] != ';' {
		return "", 0
	}
	v, err := strconv.ParseUint(s[start:i], base, 32)
	if err != nil || v == 0 || v > utf8.MaxRune {
		return "", 0
	}
	return string(rune(v)), i + 1
}

func isDigitBase(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base != 16 {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
