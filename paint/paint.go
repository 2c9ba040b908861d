// Package paint draws a laid-out page onto a render canvas. Painting
// is a pure function of the page, scroll offset and focus: the same
// inputs always fill the grid identically.
package paint

import (
	"strings"

	"toad/css"
	"toad/dom"
	"toad/form"
	"toad/layout"
	"toad/page"
	"toad/render"
	"toad/style"
	"toad/theme"
)

// Painter draws pages onto one canvas with one theme.
type Painter struct {
	Canvas     *render.Canvas
	Theme      *theme.Theme
	ShowImages bool
}

// New returns a painter for the canvas.
func New(c *render.Canvas, th *theme.Theme) *Painter {
	return &Painter{Canvas: c, Theme: th, ShowImages: true}
}

// Paint repaints the whole canvas: theme base fill, then the page
// translated up by scroll rows. focus marks the interactable to
// highlight (NoNode for none).
func (pt *Painter) Paint(pg *page.Page, scroll int, focus dom.NodeID) {
	pt.Canvas.Clear(pt.Theme.BaseStyle())
	if pg == nil || pg.Root == nil {
		return
	}
	pg.Root.Walk(func(b *layout.Box) {
		pt.paintBox(pg, b, scroll, focus)
	})
}

func (pt *Painter) paintBox(pg *page.Page, b *layout.Box, scroll int, focus dom.NodeID) {
	r := b.BorderBox()

	if b.Style.HasBackground {
		bg := pt.baseText(b.Style)
		bg.Bg = cssColor(b.Style.Background)
		for y := 0; y < r.Height; y++ {
			row := r.Row + y - scroll
			if row < 0 || row >= pt.Canvas.Height() {
				continue
			}
			pt.Canvas.DrawHLine(r.Col, row, r.Width, ' ', bg)
		}
	}

	if b.Border.Top > 0 {
		pt.paintBorder(b, r, scroll)
	}

	if b.Marker != "" {
		row := b.Content.Row - scroll
		col := b.Content.Col - render.StringWidth(b.Marker) - 1
		if row >= 0 && row < pt.Canvas.Height() && col >= 0 {
			pt.Canvas.WriteString(col, row, b.Marker, pt.baseText(b.Style))
		}
	}

	switch b.Kind {
	case layout.ReplacedBox:
		pt.paintImage(pg, b, scroll)
	case layout.ControlBox:
		// Inline controls arrive as line fragments; only block-level
		// ones (textarea) paint here.
		if b.Style.Display == style.DisplayBlock {
			pt.paintTextarea(pg, b, scroll, focus)
		}
	}

	for _, line := range b.Lines {
		for _, f := range line.Fragments {
			pt.paintFragment(pg, line.Row, f, scroll, focus)
		}
	}
}

// paintBorder draws the box-drawing frame, clipping rows that scrolled
// off the canvas.
func (pt *Painter) paintBorder(b *layout.Box, r layout.Rect, scroll int) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	st := render.Style{Fg: pt.Theme.Foreground.Render()}
	if b.Style.HasBorderColor {
		st.Fg = cssColor(b.Style.BorderColor)
	}
	if b.Style.HasBackground {
		st.Bg = cssColor(b.Style.Background)
	}
	box := render.SingleBox
	set := func(x, y int, ch rune) {
		row := y - scroll
		if row < 0 || row >= pt.Canvas.Height() {
			return
		}
		pt.Canvas.Set(x, row, ch, st)
	}
	set(r.Col, r.Row, box.TopLeft)
	set(r.Col+r.Width-1, r.Row, box.TopRight)
	set(r.Col, r.Row+r.Height-1, box.BottomLeft)
	set(r.Col+r.Width-1, r.Row+r.Height-1, box.BottomRight)
	for x := 1; x < r.Width-1; x++ {
		set(r.Col+x, r.Row, box.Horizontal)
		set(r.Col+x, r.Row+r.Height-1, box.Horizontal)
	}
	for y := 1; y < r.Height-1; y++ {
		set(r.Col, r.Row+y, box.Vertical)
		set(r.Col+r.Width-1, r.Row+y, box.Vertical)
	}
}

func (pt *Painter) paintFragment(pg *page.Page, row int, f layout.Fragment, scroll int, focus dom.NodeID) {
	y := row - scroll
	if y < 0 || y >= pt.Canvas.Height() {
		return
	}

	// Backgrounds painted by enclosing blocks show through unless the
	// fragment carries its own.
	under := pt.Canvas.Get(f.Col, y).Style
	st := render.Style{
		Bold:      f.Style.Bold,
		Italic:    f.Style.Italic,
		Underline: f.Style.Underline,
		Fg:        under.Fg,
		Bg:        under.Bg,
	}
	if f.Style.HasColor {
		st.Fg = cssColor(f.Style.Color)
	}
	if f.Style.HasBackground {
		st.Bg = cssColor(f.Style.Background)
	}

	link := linkAncestor(pg.Tree, f.Node)
	if link != dom.NoNode && !f.Style.HasColor {
		st.Fg = pt.Theme.Interactive.Render()
	}
	focused := f.Node == focus || (link != dom.NoNode && link == focus)

	if f.Control {
		pt.paintControl(pg, f, y, st, focused)
		return
	}
	if focused {
		st.Reverse = true
	}
	pt.Canvas.WriteStringMax(f.Col, y, f.Text, f.Width, st)
}

// paintControl renders an inline form control atom with its live value.
func (pt *Painter) paintControl(pg *page.Page, f layout.Fragment, y int, st render.Style, focused bool) {
	n := pg.Tree.Node(f.Node)
	_, ctl := pg.FormFor(f.Node)
	if !f.Style.HasColor {
		st.Fg = pt.Theme.Interactive.Render()
	}
	st.Reverse = focused

	typ, _ := n.Attr("type")
	typ = strings.ToLower(typ)
	var text string
	switch {
	case n.Tag == "input" && (typ == "checkbox" || typ == "radio"):
		mark := " "
		if ctl != nil && ctl.Checked {
			mark = "x"
		}
		text = "[" + mark + "]"
	case n.Tag == "button" || (n.Tag == "input" && (typ == "submit" || typ == "button" || typ == "reset")):
		text = "[" + clampLabel(buttonLabel(pg.Tree, f.Node), f.Width-2) + "]"
	case n.Tag == "select":
		v := ""
		if ctl != nil {
			v = ctl.Value
		}
		text = "[" + padValue(v, f.Width-2) + "]"
	default:
		v := ""
		if ctl != nil {
			v = ctl.Value
		}
		if typ == "password" {
			v = strings.Repeat("*", len([]rune(v)))
		}
		text = "[" + padValue(tailOf(v, f.Width-2), f.Width-2) + "]"
	}
	pt.Canvas.WriteStringMax(f.Col, y, text, f.Width, st)
}

// paintTextarea draws a block control: value lines clipped to the
// content rect, framed when the viewport allows.
func (pt *Painter) paintTextarea(pg *page.Page, b *layout.Box, scroll int, focus dom.NodeID) {
	_, ctl := pg.FormFor(b.Node)
	value := ""
	if ctl != nil {
		value = ctl.Value
	}
	st := render.Style{Fg: pt.Theme.Interactive.Render()}
	if b.Node == focus {
		st.Reverse = true
	}
	r := b.Content
	lines := strings.Split(value, "\n")
	for y := 0; y < r.Height; y++ {
		row := r.Row + y - scroll
		if row < 0 || row >= pt.Canvas.Height() {
			continue
		}
		text := ""
		if y < len(lines) {
			text = lines[y]
		}
		pt.Canvas.DrawHLine(r.Col, row, r.Width, ' ', st)
		pt.Canvas.WriteStringMax(r.Col, row, text, r.Width, st)
	}
}

// baseText is the effective text style for a box's own cells.
func (pt *Painter) baseText(c *style.Computed) render.Style {
	st := render.Style{Fg: pt.Theme.Foreground.Render()}
	if c.HasColor {
		st.Fg = cssColor(c.Color)
	}
	return st
}

func cssColor(c css.Color) render.Color {
	return render.RGB(c.R, c.G, c.B)
}

// linkAncestor climbs to the nearest enclosing <a href>.
func linkAncestor(t *dom.Tree, id dom.NodeID) dom.NodeID {
	for cur := id; cur != dom.NoNode; cur = t.Node(cur).Parent {
		n := t.Node(cur)
		if n.Type == dom.ElementNode && n.Tag == "a" {
			if href, ok := n.Attr("href"); ok && href != "" {
				return cur
			}
		}
	}
	return dom.NoNode
}

func buttonLabel(t *dom.Tree, id dom.NodeID) string {
	n := t.Node(id)
	if n.Tag == "button" {
		if label := strings.TrimSpace(t.TextContent(id)); label != "" {
			return label
		}
	}
	if v, ok := n.Attr("value"); ok && v != "" {
		return v
	}
	return "Submit"
}

func clampLabel(s string, w int) string {
	if w < 1 {
		return ""
	}
	return render.TruncateToWidth(s, w)
}

func padValue(s string, w int) string {
	if w < 1 {
		return ""
	}
	s = render.TruncateToWidth(s, w)
	if pad := w - render.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// tailOf keeps the end of an overlong value so the caret region stays
// visible while typing.
func tailOf(s string, w int) string {
	r := []rune(s)
	if w > 0 && len(r) > w {
		return string(r[len(r)-w:])
	}
	return s
}

// controlKind mirrors the form package's classification for paint and
// focus decisions.
func controlKind(t *dom.Tree, id dom.NodeID) form.ControlKind {
	n := t.Node(id)
	switch n.Tag {
	case "textarea":
		return form.KindText
	case "select":
		return form.KindSelect
	case "button":
		return form.KindSubmit
	}
	typ, _ := n.Attr("type")
	switch strings.ToLower(typ) {
	case "checkbox", "radio":
		return form.KindCheckbox
	case "submit", "button", "reset", "image":
		return form.KindSubmit
	case "hidden":
		return form.KindHidden
	}
	return form.KindText
}
