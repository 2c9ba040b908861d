package style

import (
	"sort"

	"toad/css"
	"toad/dom"
)

// Styles holds one computed style per arena node. Text and comment
// nodes carry only the inherited text properties of their parent
// element; box properties belong to elements.
type Styles struct {
	computed []Computed
}

// For returns the computed style of id.
func (s *Styles) For(id dom.NodeID) *Computed {
	return &s.computed[id]
}

type matchedRule struct {
	origin      css.Origin
	specificity css.Specificity
	order       int
	decls       []css.Declaration
}

// Resolve runs the cascade over the whole tree. Sheets apply in the
// order given; the built-in sheet must come first so author rules of
// equal specificity win on origin. Resolution is pure: the same tree
// and sheets always produce the same table.
func Resolve(t *dom.Tree, sheets ...*css.Stylesheet) *Styles {
	s := &Styles{computed: make([]Computed, t.Len())}
	resolveNode(t, t.Root, nil, sheets, s)
	return s
}

func resolveNode(t *dom.Tree, id dom.NodeID, parent *Computed, sheets []*css.Stylesheet, s *Styles) {
	n := t.Node(id)
	if n.Type != dom.ElementNode {
		s.computed[id] = inherit(parent)
		return
	}

	c := inherit(parent)
	c.Display = defaultDisplay(n.Tag)

	var matches []matchedRule
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, r := range sheet.Rules {
			if r.Selector.Matches(t, id) {
				matches = append(matches, matchedRule{r.Origin, r.Specificity, r.Order, r.Declarations})
			}
		}
	}
	// Ascending order so the strongest rule applies last and wins.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.origin != b.origin {
			return a.origin < b.origin
		}
		if d := a.specificity.Compare(b.specificity); d != 0 {
			return d < 0
		}
		return a.order < b.order
	})
	for _, m := range matches {
		for _, d := range m.decls {
			apply(&c, parent, d.Property, d.Value)
		}
	}

	// The style attribute outranks every sheet rule.
	if inline, ok := n.Attr("style"); ok {
		for _, d := range css.ParseDeclarationList(inline) {
			apply(&c, parent, d.Property, d.Value)
		}
	}

	s.computed[id] = c
	for _, child := range n.Children {
		resolveNode(t, child, &s.computed[id], sheets, s)
	}
}

// defaultDisplay gives elements their pre-stylesheet display so pages
// stay readable even when a sheet fails to parse. The built-in sheet
// normally restates these.
func defaultDisplay(tag string) Display {
	switch tag {
	case "html", "body", "div", "p", "blockquote", "pre", "hr", "form",
		"table", "thead", "tbody", "tr", "header", "footer", "section",
		"article", "nav", "aside", "main", "figure", "figcaption",
		"address", "fieldset", "dl", "dt", "dd", "center", "textarea",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol":
		return DisplayBlock
	case "li":
		return DisplayListItem
	case "head", "script", "style", "title", "meta", "link", "base",
		"template", "noscript":
		return DisplayNone
	}
	return DisplayInline
}
