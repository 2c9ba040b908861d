// Package layout turns a styled dom tree into a box tree positioned on
// the character grid. Pixel lengths map to cells at 8px per column and
// 16px per row; block boxes stack vertically with collapsed margins and
// inline content breaks greedily into lines.
package layout

import (
	"toad/dom"
	"toad/style"
)

// Kind discriminates box behavior during layout and paint.
type Kind int

const (
	BlockBox Kind = iota
	InlineBox
	AnonymousBox
	ReplacedBox
	ControlBox
)

// Viewport is the drawable page area in cells.
type Viewport struct {
	Cols int
	Rows int
}

// Rect is a cell rectangle; Row grows downward.
type Rect struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Edges are per-side cell counts.
type Edges struct {
	Top, Right, Bottom, Left int
}

// Fragment is one run of a line: text (or an atomic control) with a
// single style at a fixed column. Fragments on a line never overlap.
type Fragment struct {
	Col     int
	Width   int
	Text    string
	Node    dom.NodeID
	Style   *style.Computed
	Control bool
}

// Line is one row of laid-out inline content.
type Line struct {
	Row       int
	Fragments []Fragment
}

// Image describes a replaced box's content. When Placeholder is set
// the image could not be sized and the alt text paints instead.
type Image struct {
	Src         string
	Alt         string
	Placeholder bool
}

// Box is one node of the layout tree. Content excludes border and
// padding; border and padding cells sit outside it, margins outside
// those. Block children stack inside Content; inline content lives in
// Lines instead of Children.
type Box struct {
	Kind  Kind
	Node  dom.NodeID
	Style *style.Computed

	Content Rect
	Margin  Edges
	Border  Edges
	Padding Edges

	Children []*Box
	Lines    []Line

	Text   string // inline text leaf
	Image  *Image
	Marker string // list-item marker, painted left of Content
}

// BorderBox returns the rectangle spanned by border, padding and
// content.
func (b *Box) BorderBox() Rect {
	return Rect{
		Col:    b.Content.Col - b.Padding.Left - b.Border.Left,
		Row:    b.Content.Row - b.Padding.Top - b.Border.Top,
		Width:  b.Content.Width + b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right,
		Height: b.Content.Height + b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom,
	}
}

// Walk visits the box and its descendants depth-first.
func (b *Box) Walk(fn func(*Box)) {
	if b == nil {
		return
	}
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Height returns the total document height in rows, including the root
// box's own edges.
func (b *Box) Height() int {
	if b == nil {
		return 0
	}
	r := b.BorderBox()
	return r.Row + r.Height + b.Margin.Bottom
}

// inlineLevel reports whether the box participates in inline flow.
// Images are block-level replaced boxes here; multi-row pictures read
// badly when wedged between words. Textareas are block-level controls.
func (b *Box) inlineLevel() bool {
	switch b.Kind {
	case InlineBox:
		return true
	case ControlBox:
		return b.Style.Display != style.DisplayBlock
	}
	return false
}
