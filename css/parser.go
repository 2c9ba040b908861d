package css

import "strings"

// Origin orders the cascade: user agent rules lose to author rules,
// which lose to the element's own style attribute.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginAuthor
	OriginInline
)

// Declaration is a single property: value pair. Value keeps the raw
// source text; interpretation happens at apply time.
type Declaration struct {
	Property string
	Value    string
}

// Rule binds one selector to a declaration block. Selector groups are
// split at parse time, so specificity is per-rule.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
	Specificity  Specificity
	Order        int
	Origin       Origin
}

// Stylesheet is an ordered rule list, possibly appended to from several
// sources (<style> elements, linked sheets).
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses src as a complete stylesheet.
func ParseStylesheet(src string, origin Origin) *Stylesheet {
	s := &Stylesheet{}
	s.Append(src, origin)
	return s
}

// Append parses src and adds its rules after the existing ones,
// continuing the source-order numbering.
func (s *Stylesheet) Append(src string, origin Origin) {
	p := &parser{tokens: tokenize(src), src: src, origin: origin}
	p.parseRules(s, false)
}

type parser struct {
	tokens []token
	pos    int
	src    string
	origin Origin
}

func (p *parser) peek() token  { return p.tokens[p.pos] }
func (p *parser) advance()     { p.pos++ }
func (p *parser) atEOF() bool  { return p.peek().kind == tokenEOF }
func (p *parser) skipSpace() {
	for p.peek().kind == tokenWhitespace {
		p.advance()
	}
}

// parseRules consumes rules until EOF, or until the '}' closing the
// enclosing block when inBlock is set.
func (p *parser) parseRules(s *Stylesheet, inBlock bool) {
	for {
		p.skipSpace()
		t := p.peek()
		switch t.kind {
		case tokenEOF:
			return
		case tokenRBrace:
			p.advance()
			if inBlock {
				return
			}
			// Stray '}' at the top level; keep going.
		case tokenAtKeyword:
			p.parseAtRule(s)
		default:
			p.parseQualifiedRule(s)
		}
	}
}

// parseAtRule handles @media screen by recursing into its block; every
// other at-rule is skipped wholesale.
func (p *parser) parseAtRule(s *Stylesheet) {
	name := p.peek().value
	p.advance()
	isScreen := false
	for {
		t := p.peek()
		if t.kind == tokenEOF || t.kind == tokenLBrace || t.kind == tokenSemicolon {
			break
		}
		if t.kind == tokenIdent && (t.value == "screen" || t.value == "all") {
			isScreen = true
		}
		p.advance()
	}
	switch p.peek().kind {
	case tokenSemicolon:
		p.advance() // e.g. @import, unsupported
	case tokenLBrace:
		p.advance()
		if name == "media" && isScreen {
			p.parseRules(s, true)
		} else {
			p.skipBlock()
		}
	}
}

// skipBlock consumes a balanced {...} body; the opening brace has
// already been consumed.
func (p *parser) skipBlock() {
	depth := 1
	for depth > 0 && !p.atEOF() {
		switch p.peek().kind {
		case tokenLBrace:
			depth++
		case tokenRBrace:
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseQualifiedRule(s *Stylesheet) {
	prelude := p.collectPrelude()
	if p.peek().kind != tokenLBrace {
		// Malformed rule with no block; tokens already consumed.
		if !p.atEOF() {
			p.advance()
		}
		return
	}
	p.advance()
	decls := p.parseDeclarations()
	selectors := parseSelectorGroup(prelude)
	if len(selectors) == 0 {
		return // unparseable selector, whole rule dropped
	}
	for _, sel := range selectors {
		s.Rules = append(s.Rules, Rule{
			Selector:     sel,
			Declarations: decls,
			Specificity:  sel.Specificity(),
			Order:        len(s.Rules),
			Origin:       p.origin,
		})
	}
}

// collectPrelude gathers tokens up to the rule's '{' (or EOF/'}').
func (p *parser) collectPrelude() []token {
	var out []token
	for {
		t := p.peek()
		if t.kind == tokenEOF || t.kind == tokenLBrace || t.kind == tokenRBrace {
			return out
		}
		out = append(out, t)
		p.advance()
	}
}

// parseDeclarations reads property:value pairs until the block closes.
// A malformed declaration is skipped to the next ';' or '}', leaving
// its neighbours intact.
func (p *parser) parseDeclarations() []Declaration {
	var decls []Declaration
	for {
		p.skipSpace()
		t := p.peek()
		switch t.kind {
		case tokenEOF:
			return decls
		case tokenRBrace:
			p.advance()
			return decls
		case tokenSemicolon:
			p.advance()
			continue
		}
		if t.kind != tokenIdent {
			p.recoverDeclaration()
			continue
		}
		prop := t.value
		p.advance()
		p.skipSpace()
		if p.peek().kind != tokenColon {
			p.recoverDeclaration()
			continue
		}
		p.advance()
		raw, ok := p.readDeclarationValue()
		if ok && raw != "" {
			decls = append(decls, Declaration{Property: prop, Value: raw})
		}
	}
}

// readDeclarationValue slices the raw source between the ':' and the
// terminating ';'/'}' so values like rgb(1, 2, 3) survive verbatim.
// A nested '{' means the declaration is malformed.
func (p *parser) readDeclarationValue() (string, bool) {
	first, last := -1, -1
	for {
		t := p.peek()
		switch t.kind {
		case tokenEOF:
			return p.slice(first, last), true
		case tokenSemicolon:
			p.advance()
			return p.slice(first, last), true
		case tokenRBrace:
			return p.slice(first, last), true // leave '}' for the caller
		case tokenLBrace:
			p.recoverDeclaration()
			return "", false
		case tokenWhitespace:
			p.advance()
			continue
		}
		if first < 0 {
			first = t.start
		}
		last = t.end
		p.advance()
	}
}

func (p *parser) slice(first, last int) string {
	if first < 0 || last <= first {
		return ""
	}
	v := strings.TrimSpace(p.src[first:last])
	// !important carries no weight here but must not poison the value.
	if i := strings.Index(strings.ToLower(v), "!important"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}

// recoverDeclaration skips to the next ';' or the block's '}',
// balancing nested braces on the way.
func (p *parser) recoverDeclaration() {
	depth := 0
	for !p.atEOF() {
		switch p.peek().kind {
		case tokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case tokenLBrace:
			depth++
		case tokenRBrace:
			if depth == 0 {
				return // block close handled by parseDeclarations
			}
			depth--
		}
		p.advance()
	}
}

// ParseDeclarationList parses the contents of a style="" attribute.
func ParseDeclarationList(src string) []Declaration {
	p := &parser{tokens: tokenize(src), src: src}
	return p.parseDeclarations()
}
