package layout

import (
	"math"
	"strconv"
	"strings"

	"toad/css"
	"toad/dom"
	"toad/render"
	"toad/style"
)

// SizeImage resolves an image reference to a cell footprint. attrW and
// attrH are the element's width/height attributes in pixels (0 when
// absent); maxCols caps the result. ok is false when the image is
// unavailable, which paints the alt text instead.
type SizeImage func(src string, attrW, attrH, maxCols int) (cols, rows int, ok bool)

type ctx struct {
	tree      *dom.Tree
	styles    *style.Styles
	sizeImage SizeImage
	anon      []*style.Computed // keeps anonymous styles alive
}

// Build lays out the document body for the given viewport and returns
// the root box. It is total: any tree produces a box tree whose
// invariants (children inside parents, siblings on increasing rows)
// hold.
func Build(t *dom.Tree, styles *style.Styles, vp Viewport, sizeImage SizeImage) *Box {
	c := &ctx{tree: t, styles: styles, sizeImage: sizeImage}
	root := c.buildBox(t.Body())
	if root == nil {
		root = &Box{Kind: BlockBox, Node: t.Body(), Style: styles.For(t.Body())}
	}
	cols := vp.Cols
	if cols < 1 {
		cols = 1
	}
	ml := cellsX(root.Style.Margin[style.EdgeLeft], cols)
	mt := cellsY(root.Style.Margin[style.EdgeTop])
	root.Margin = Edges{Top: mt, Left: ml,
		Right:  cellsX(root.Style.Margin[style.EdgeRight], cols),
		Bottom: cellsY(root.Style.Margin[style.EdgeBottom])}
	c.layoutBox(root, ml, mt, cols-ml-root.Margin.Right)
	return root
}

// buildBox constructs the subtree for one dom node, or nil when the
// node generates no box.
func (c *ctx) buildBox(id dom.NodeID) *Box {
	n := c.tree.Node(id)
	switch n.Type {
	case dom.CommentNode:
		return nil
	case dom.TextNode:
		// Text fragments paint with the owning element's full style.
		st := c.styles.For(id)
		if n.Parent != dom.NoNode {
			st = c.styles.For(n.Parent)
		}
		return &Box{Kind: InlineBox, Node: id, Style: st, Text: n.Text}
	}
	st := c.styles.For(id)
	if st.Display == style.DisplayNone {
		return nil
	}
	switch n.Tag {
	case "img":
		src, _ := n.Attr("src")
		alt, _ := n.Attr("alt")
		if alt == "" {
			alt = "image"
		}
		return &Box{Kind: ReplacedBox, Node: id, Style: st, Image: &Image{Src: src, Alt: alt}}
	case "br":
		return &Box{Kind: InlineBox, Node: id, Style: st, Text: "\n"}
	case "input", "button", "select", "textarea":
		return &Box{Kind: ControlBox, Node: id, Style: st}
	}

	b := &Box{Kind: BlockBox, Node: id, Style: st}
	if st.Display == style.DisplayInline {
		b.Kind = InlineBox
	}
	c.buildChildren(b, n)
	if st.Display == style.DisplayListItem {
		b.Marker = "•"
	}
	if n.Tag == "ol" {
		number := 1
		for _, child := range b.Children {
			if child.Marker != "" {
				child.Marker = strconv.Itoa(number) + "."
				number++
			}
		}
	}
	return b
}

// buildChildren builds and attaches child boxes, wrapping inline runs
// in anonymous blocks when block siblings are present.
func (c *ctx) buildChildren(b *Box, n *dom.Node) {
	var kids []*Box
	hasBlock := false
	for _, childID := range n.Children {
		child := c.buildBox(childID)
		if child == nil {
			continue
		}
		if !child.inlineLevel() {
			hasBlock = true
		}
		kids = append(kids, child)
	}
	// An inline element containing block-level boxes becomes block
	// level itself: its blocks stack below the surrounding flow rather
	// than dropping out of the line builder.
	if b.Kind == InlineBox && hasBlock {
		b.Kind = BlockBox
	}
	if b.Kind == InlineBox || !hasBlock {
		b.Children = kids
		return
	}

	// Mixed content: consecutive inline boxes wrap in an anonymous
	// block. Whitespace-only text between blocks generates nothing.
	anonStyle := style.Anonymous(b.Style)
	c.anon = append(c.anon, &anonStyle)
	var run []*Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		meaningful := false
		for _, r := range run {
			if r.Kind != InlineBox || r.Style.Pre || strings.TrimSpace(r.Text) != "" || len(r.Children) > 0 {
				meaningful = true
			}
		}
		if meaningful {
			b.Children = append(b.Children, &Box{Kind: AnonymousBox, Node: b.Node, Style: c.anon[len(c.anon)-1], Children: run})
		}
		run = nil
	}
	for _, k := range kids {
		if k.inlineLevel() {
			run = append(run, k)
			continue
		}
		flush()
		b.Children = append(b.Children, k)
	}
	flush()
}

// layoutBox positions b's border box at (x, y) inside a containing
// block cw cells wide and returns the border-box height. Margins are
// the caller's concern.
func (c *ctx) layoutBox(b *Box, x, y, cw int) int {
	st := b.Style
	if cw < 1 {
		cw = 1
	}
	bw := 0
	if st.Border {
		bw = 1
	}
	b.Border = Edges{bw, bw, bw, bw}
	b.Padding = Edges{
		Top:    cellsY(st.Padding[style.EdgeTop]),
		Right:  cellsX(st.Padding[style.EdgeRight], cw),
		Bottom: cellsY(st.Padding[style.EdgeBottom]),
		Left:   cellsX(st.Padding[style.EdgeLeft], cw),
	}

	contentW := cw - 2*bw - b.Padding.Left - b.Padding.Right
	if st.Width.Unit == css.UnitPx || st.Width.Unit == css.UnitPercent {
		if w := cellsX(st.Width, cw); w > 0 {
			contentW = min(w, cw-2*bw-b.Padding.Left-b.Padding.Right)
		}
	}
	if contentW < 1 {
		contentW = 1
	}

	b.Content.Col = x + bw + b.Padding.Left
	b.Content.Row = y + bw + b.Padding.Top
	b.Content.Width = contentW

	switch {
	case b.Kind == ReplacedBox:
		c.sizeReplaced(b)
	case b.Kind == ControlBox:
		b.Content.Width, b.Content.Height = c.controlSize(b.Node, contentW)
	case allInline(b.Children):
		b.Content.Height = c.layoutInline(b)
	default:
		b.Content.Height = c.layoutBlockChildren(b)
	}

	if st.Height.Unit == css.UnitPx {
		b.Content.Height = cellsY(st.Height)
	}
	if b.Content.Height < 0 {
		b.Content.Height = 0
	}
	return b.Content.Height + 2*bw + b.Padding.Top + b.Padding.Bottom
}

// layoutBlockChildren stacks block-level children downward, collapsing
// adjacent vertical margins to their maximum.
func (c *ctx) layoutBlockChildren(b *Box) int {
	cursor := b.Content.Row
	prevMargin := 0
	first := true
	for _, child := range b.Children {
		mt := cellsY(child.Style.Margin[style.EdgeTop])
		mb := cellsY(child.Style.Margin[style.EdgeBottom])
		ml := cellsX(child.Style.Margin[style.EdgeLeft], b.Content.Width)
		mr := cellsX(child.Style.Margin[style.EdgeRight], b.Content.Width)
		if child.Kind == AnonymousBox {
			mt, mb, ml, mr = 0, 0, 0, 0
		}
		if first {
			cursor += mt
			first = false
		} else {
			cursor += max(prevMargin, mt)
		}
		child.Margin = Edges{Top: mt, Right: mr, Bottom: mb, Left: ml}
		h := c.layoutBox(child, b.Content.Col+ml, cursor, b.Content.Width-ml-mr)
		cursor += h
		prevMargin = mb
	}
	if first {
		return 0
	}
	return cursor + prevMargin - b.Content.Row
}

// sizeReplaced fixes the cell footprint of an image box.
func (c *ctx) sizeReplaced(b *Box) {
	n := c.tree.Node(b.Node)
	attrW := atoiAttr(n, "width")
	attrH := atoiAttr(n, "height")
	maxCols := b.Content.Width
	if c.sizeImage != nil {
		if cols, rows, ok := c.sizeImage(b.Image.Src, attrW, attrH, maxCols); ok {
			b.Content.Width = min(cols, maxCols)
			b.Content.Height = rows
			return
		}
	}
	b.Image.Placeholder = true
	b.Content.Width = min(render.StringWidth(b.Image.Alt)+2, maxCols)
	b.Content.Height = 1
}

// controlSize gives form controls their atomic footprint.
func (c *ctx) controlSize(id dom.NodeID, maxCols int) (w, h int) {
	n := c.tree.Node(id)
	switch n.Tag {
	case "textarea":
		cols := atoiAttr(n, "cols")
		if cols <= 0 {
			cols = 40
		}
		rows := atoiAttr(n, "rows")
		if rows <= 0 {
			rows = 4
		}
		return min(cols+2, maxCols), rows
	case "select":
		longest := 1
		c.tree.Walk(id, func(opt dom.NodeID) bool {
			o := c.tree.Node(opt)
			if o.Type == dom.ElementNode && o.Tag == "option" {
				longest = max(longest, render.StringWidth(strings.TrimSpace(c.tree.TextContent(opt))))
			}
			return true
		})
		return min(longest+2, maxCols), 1
	case "button":
		label := strings.TrimSpace(c.tree.TextContent(id))
		if v, ok := n.Attr("value"); label == "" && ok {
			label = v
		}
		if label == "" {
			label = "Submit"
		}
		return min(render.StringWidth(label)+2, maxCols), 1
	}
	// input
	typ, _ := n.Attr("type")
	switch typ {
	case "checkbox", "radio":
		return 3, 1
	case "hidden":
		return 0, 0
	case "submit", "button", "reset":
		label, _ := n.Attr("value")
		if label == "" {
			label = "Submit"
		}
		return min(render.StringWidth(label)+2, maxCols), 1
	}
	size := atoiAttr(n, "size")
	if size <= 0 {
		size = 20
	}
	return min(size+2, maxCols), 1
}

func allInline(children []*Box) bool {
	for _, c := range children {
		if !c.inlineLevel() {
			return false
		}
	}
	return true
}

func atoiAttr(n *dom.Node, name string) int {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0
	}
	return i
}

func cellsX(l css.Length, cw int) int {
	switch l.Unit {
	case css.UnitPx:
		return int(math.Round(l.Value / css.EMPixels))
	case css.UnitPercent:
		return int(math.Round(l.Value / 100 * float64(cw)))
	}
	return 0
}

func cellsY(l css.Length) int {
	if l.Unit == css.UnitPx {
		return int(math.Round(l.Value / css.LHPixels))
	}
	return 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
