package style

import (
	"testing"

	"toad/css"
	"toad/dom"
)

func resolve(t *testing.T, html, sheet string) (*dom.Tree, *Styles) {
	t.Helper()
	tree := dom.Parse(html)
	author := css.ParseStylesheet(sheet, css.OriginAuthor)
	return tree, Resolve(tree, css.UserAgent(), author)
}

func TestSourceOrderBreaksTies(t *testing.T) {
	tree, s := resolve(t, `<p class="a b">x</p>`,
		`.a { color: red } .b { color: blue }`)
	got := s.For(tree.FindFirst("p"))
	if !got.HasColor || got.Color != (css.Color{R: 0, G: 0, B: 255}) {
		t.Errorf("color = %+v, want the later rule's blue", got.Color)
	}
}

func TestIDBeatsClassRegardlessOfOrder(t *testing.T) {
	tree, s := resolve(t, `<p id="x" class="a">x</p>`,
		`#x { color: red } .a { color: blue }`)
	got := s.For(tree.FindFirst("p"))
	if got.Color != (css.Color{R: 255, G: 0, B: 0}) {
		t.Errorf("color = %+v, want the id rule's red", got.Color)
	}
}

func TestInlineStyleOutranksSheets(t *testing.T) {
	tree, s := resolve(t, `<p id="x" style="color: green">x</p>`,
		`#x { color: red }`)
	got := s.For(tree.FindFirst("p"))
	if got.Color != (css.Color{R: 0, G: 128, B: 0}) {
		t.Errorf("color = %+v, want inline green", got.Color)
	}
}

func TestAuthorBeatsUserAgent(t *testing.T) {
	tree, s := resolve(t, `<h1>x</h1>`, `h1 { font-weight: normal }`)
	if s.For(tree.FindFirst("h1")).Bold {
		t.Error("author font-weight: normal should override the default bold")
	}
}

func TestColorInherits(t *testing.T) {
	tree, s := resolve(t, `<div><p><b>deep</b></p></div>`, `div { color: red }`)
	red := css.Color{R: 255, G: 0, B: 0}
	for _, tag := range []string{"div", "p", "b"} {
		c := s.For(tree.FindFirst(tag))
		if !c.HasColor || c.Color != red {
			t.Errorf("%s color = %+v, want inherited red", tag, c.Color)
		}
	}
	// Text nodes carry their parent's style.
	b := tree.FindFirst("b")
	text := tree.Node(b).Children[0]
	if got := s.For(text); got.Color != red {
		t.Errorf("text node color = %+v", got.Color)
	}
}

func TestTextLeavesCarryOnlyInheritedProperties(t *testing.T) {
	tree, s := resolve(t, `<div>x</div>`,
		`div { color: red; border: solid; background: yellow; margin: 16px; width: 80px }`)
	div := tree.FindFirst("div")
	text := tree.Node(div).Children[0]
	got := s.For(text)
	if !got.HasColor || got.Color != (css.Color{R: 255, G: 0, B: 0}) {
		t.Errorf("text color = %+v, want inherited red", got.Color)
	}
	if got.Border || got.HasBackground {
		t.Error("box properties leaked onto a text leaf")
	}
	if got.Margin[EdgeTop] != css.Px(0) {
		t.Errorf("text margin = %+v, want zero", got.Margin[EdgeTop])
	}
	if got.Width.Unit != css.UnitAuto {
		t.Errorf("text width = %+v, want auto", got.Width)
	}
}

func TestNonInheritedReset(t *testing.T) {
	tree, s := resolve(t, `<div><p>x</p></div>`,
		`div { background: yellow; border: solid; width: 80px }`)
	p := s.For(tree.FindFirst("p"))
	if p.HasBackground {
		t.Error("background must not inherit")
	}
	if p.Border {
		t.Error("border must not inherit")
	}
	if p.Width.Unit != css.UnitAuto {
		t.Errorf("width = %+v, want auto", p.Width)
	}
}

func TestExplicitInheritKeyword(t *testing.T) {
	tree, s := resolve(t, `<div><p>x</p></div>`,
		`div { background: yellow } p { background: inherit }`)
	p := s.For(tree.FindFirst("p"))
	if !p.HasBackground || p.Background != (css.Color{R: 255, G: 255, B: 0}) {
		t.Errorf("background = %+v, want inherited yellow", p.Background)
	}
}

func TestDisplayDefaults(t *testing.T) {
	tree, s := resolve(t, `<div><span>x</span><li>y</li><script>z()</script></div>`, ``)
	if s.For(tree.FindFirst("div")).Display != DisplayBlock {
		t.Error("div should default to block")
	}
	if s.For(tree.FindFirst("span")).Display != DisplayInline {
		t.Error("span should default to inline")
	}
	if s.For(tree.FindFirst("li")).Display != DisplayListItem {
		t.Error("li should default to list-item")
	}
	if s.For(tree.FindFirst("script")).Display != DisplayNone {
		t.Error("script should default to none")
	}
}

func TestUnknownPropertiesIgnored(t *testing.T) {
	tree, s := resolve(t, `<p>x</p>`,
		`p { transition: all 1s; color: red; zoom: 2 }`)
	got := s.For(tree.FindFirst("p"))
	if got.Color != (css.Color{R: 255, G: 0, B: 0}) {
		t.Error("known property lost among unknown ones")
	}
}

func TestShorthandEdges(t *testing.T) {
	tree, s := resolve(t, `<p>x</p>`, `p { margin: 16px 8px; padding: 1em }`)
	got := s.For(tree.FindFirst("p"))
	if got.Margin[EdgeTop] != css.Px(16) || got.Margin[EdgeLeft] != css.Px(8) {
		t.Errorf("margin = %+v", got.Margin)
	}
	if got.Padding[EdgeBottom] != css.Px(8) {
		t.Errorf("padding = %+v", got.Padding)
	}
}

func TestResolveDeterministic(t *testing.T) {
	html := `<div class="a"><p id="x">one</p><p>two</p></div>`
	sheet := `.a p { color: red } #x { font-weight: bold }`
	tree := dom.Parse(html)
	author := css.ParseStylesheet(sheet, css.OriginAuthor)
	first := Resolve(tree, css.UserAgent(), author)
	second := Resolve(tree, css.UserAgent(), author)
	for id := 0; id < tree.Len(); id++ {
		if *first.For(dom.NodeID(id)) != *second.For(dom.NodeID(id)) {
			t.Fatalf("node %d resolved differently across runs", id)
		}
	}
}
