package css

import "toad/dom"

// SimpleSelector is one compound selector: an optional type plus any
// number of id/class/attribute-presence constraints.
type SimpleSelector struct {
	Tag     string // "" or "*" matches any element
	ID      string
	Classes []string
	Attrs   []string
}

// Combinator relates adjacent compounds in a Selector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
)

// Selector is a compound chain: Parts[len-1] is the subject, and
// Combinators[i] relates Parts[i] to Parts[i+1].
type Selector struct {
	Parts       []SimpleSelector
	Combinators []Combinator
}

// Specificity is the (ids, classes, types) triple; attribute selectors
// count with classes.
type Specificity struct {
	IDs     int
	Classes int
	Types   int
}

// Compare returns -1, 0 or 1 ordering a against b.
func (a Specificity) Compare(b Specificity) int {
	if a.IDs != b.IDs {
		return cmp(a.IDs, b.IDs)
	}
	if a.Classes != b.Classes {
		return cmp(a.Classes, b.Classes)
	}
	return cmp(a.Types, b.Types)
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func (s Selector) Specificity() Specificity {
	var out Specificity
	for _, p := range s.Parts {
		if p.ID != "" {
			out.IDs++
		}
		out.Classes += len(p.Classes) + len(p.Attrs)
		if p.Tag != "" && p.Tag != "*" {
			out.Types++
		}
	}
	return out
}

// Matches walks the compound chain right to left: the subject must
// match id, then each earlier compound must match an ancestor (any
// ancestor for a descendant combinator, the immediate parent for '>').
func (s Selector) Matches(t *dom.Tree, id dom.NodeID) bool {
	if len(s.Parts) == 0 {
		return false
	}
	last := len(s.Parts) - 1
	if !matchSimple(t.Node(id), s.Parts[last]) {
		return false
	}
	cur := id
	for i := last - 1; i >= 0; i-- {
		comb := s.Combinators[i]
		parent := t.Node(cur).Parent
		if comb == Child {
			if parent == dom.NoNode || !matchSimple(t.Node(parent), s.Parts[i]) {
				return false
			}
			cur = parent
			continue
		}
		found := dom.NoNode
		for anc := parent; anc != dom.NoNode; anc = t.Node(anc).Parent {
			if matchSimple(t.Node(anc), s.Parts[i]) {
				found = anc
				break
			}
		}
		if found == dom.NoNode {
			return false
		}
		cur = found
	}
	return true
}

func matchSimple(n *dom.Node, s SimpleSelector) bool {
	if n.Type != dom.ElementNode {
		return false
	}
	if s.Tag != "" && s.Tag != "*" && s.Tag != n.Tag {
		return false
	}
	if s.ID != "" && n.ID() != s.ID {
		return false
	}
	for _, class := range s.Classes {
		if !hasClass(n, class) {
			return false
		}
	}
	for _, attr := range s.Attrs {
		if !n.HasAttr(attr) {
			return false
		}
	}
	return true
}

func hasClass(n *dom.Node, class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// parseSelectorGroup splits a rule prelude on commas and parses each
// selector. Selectors using unsupported syntax are dropped without
// taking the rest of the group with them.
func parseSelectorGroup(prelude []token) []Selector {
	var out []Selector
	start := 0
	for i := 0; i <= len(prelude); i++ {
		if i < len(prelude) && prelude[i].kind != tokenComma {
			continue
		}
		if sel, ok := parseSelector(prelude[start:i]); ok {
			out = append(out, sel)
		}
		start = i + 1
	}
	return out
}

func parseSelector(tokens []token) (Selector, bool) {
	var sel Selector
	var cur SimpleSelector
	started := false
	pendingCombinator := Descendant
	pendingBreak := false

	flush := func() bool {
		if !started {
			return false
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pendingCombinator)
		}
		sel.Parts = append(sel.Parts, cur)
		cur = SimpleSelector{}
		started = false
		pendingCombinator = Descendant
		return true
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.kind {
		case tokenWhitespace:
			if started {
				pendingBreak = true
			}
		case tokenDelim:
			switch t.value {
			case "*":
				if pendingBreak {
					flush()
					pendingBreak = false
				}
				cur.Tag = "*"
				started = true
			case ">":
				if started {
					flush()
				}
				pendingBreak = false
				pendingCombinator = Child
			case ".":
				if i+1 >= len(tokens) || tokens[i+1].kind != tokenIdent {
					return Selector{}, false
				}
				if pendingBreak {
					flush()
					pendingBreak = false
				}
				i++
				cur.Classes = append(cur.Classes, tokens[i].value)
				started = true
			default:
				return Selector{}, false // unsupported (+, ~, ...)
			}
		case tokenHash:
			if pendingBreak {
				flush()
				pendingBreak = false
			}
			cur.ID = t.value
			started = true
		case tokenIdent:
			if pendingBreak || (started && cur.Tag != "") {
				flush()
				pendingBreak = false
			}
			cur.Tag = t.value
			started = true
		case tokenLBracket:
			if pendingBreak {
				flush()
				pendingBreak = false
			}
			if i+2 >= len(tokens) || tokens[i+1].kind != tokenIdent || tokens[i+2].kind != tokenRBracket {
				return Selector{}, false // only [attr] presence supported
			}
			cur.Attrs = append(cur.Attrs, tokens[i+1].value)
			started = true
			i += 2
		case tokenColon:
			return Selector{}, false // pseudo-classes unsupported
		case tokenNumber:
			return Selector{}, false
		default:
			return Selector{}, false
		}
	}
	flush()
	if len(sel.Parts) == 0 {
		return Selector{}, false
	}
	return sel, true
}
