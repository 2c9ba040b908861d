package paint

import (
	"sort"
	"strings"

	"toad/dom"
	"toad/form"
	"toad/layout"
	"toad/page"
)

// Kind classifies what activating an interactable does.
type Kind int

const (
	KindLink Kind = iota
	KindInput
	KindCheckbox
	KindSelect
	KindSubmit
)

// Interactable is one focusable element with its first on-page
// position. Focus cycling walks these in reading order.
type Interactable struct {
	Node dom.NodeID
	Kind Kind
	Href string // links only, unresolved
	Row  int
	Col  int
}

// Interactables collects the page's links and form controls in
// reading order (row, then column).
func Interactables(pg *page.Page) []Interactable {
	if pg == nil || pg.Root == nil {
		return nil
	}
	var out []Interactable
	seen := map[dom.NodeID]bool{}
	add := func(it Interactable) {
		if seen[it.Node] {
			return
		}
		seen[it.Node] = true
		out = append(out, it)
	}

	pg.Root.Walk(func(b *layout.Box) {
		if b.Kind == layout.ControlBox {
			if it, ok := controlInteractable(pg, b.Node, b.Content.Row, b.Content.Col); ok {
				add(it)
			}
		}
		for _, line := range b.Lines {
			for _, f := range line.Fragments {
				if f.Control {
					if it, ok := controlInteractable(pg, f.Node, line.Row, f.Col); ok {
						add(it)
					}
					continue
				}
				if strings.TrimSpace(f.Text) == "" {
					continue
				}
				if link := linkAncestor(pg.Tree, f.Node); link != dom.NoNode {
					href, _ := pg.Tree.Node(link).Attr("href")
					add(Interactable{Node: link, Kind: KindLink, Href: href, Row: line.Row, Col: f.Col})
				}
			}
		}
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func controlInteractable(pg *page.Page, id dom.NodeID, row, col int) (Interactable, bool) {
	it := Interactable{Node: id, Row: row, Col: col}
	switch controlKind(pg.Tree, id) {
	case form.KindText:
		it.Kind = KindInput
	case form.KindCheckbox:
		it.Kind = KindCheckbox
	case form.KindSelect:
		it.Kind = KindSelect
	case form.KindSubmit:
		it.Kind = KindSubmit
	default:
		return Interactable{}, false // hidden inputs are not focusable
	}
	return it, true
}
