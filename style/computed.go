// Package style resolves the cascade: it matches stylesheet rules
// against a dom tree and produces one computed style per element.
package style

import "toad/css"

// Display is the resolved display type.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayListItem
	DisplayNone
)

// Align is the resolved text-align.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Edge indexes into margin/padding arrays.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Computed is the full property set for one element. Color, Bold,
// Italic, Underline, TextAlign and Pre inherit; everything else takes
// its initial value when unset.
type Computed struct {
	Display Display

	Color    css.Color
	HasColor bool

	Background    css.Color
	HasBackground bool

	Bold      bool
	Italic    bool
	Underline bool
	TextAlign Align
	Pre       bool

	Width  css.Length
	Height css.Length

	Margin  [4]css.Length
	Padding [4]css.Length

	Border         bool
	BorderColor    css.Color
	HasBorderColor bool
}

// initial returns the computed style of an element with no matching
// rules and no parent.
func initial() Computed {
	return Computed{
		Display: DisplayInline,
		Width:   css.Auto(),
		Height:  css.Auto(),
		Margin:  [4]css.Length{css.Px(0), css.Px(0), css.Px(0), css.Px(0)},
		Padding: [4]css.Length{css.Px(0), css.Px(0), css.Px(0), css.Px(0)},
	}
}

// Anonymous derives the style of an anonymous block wrapper: inherited
// text properties come from the parent, box properties stay at their
// initial values so the wrapper adds no edges of its own.
func Anonymous(parent *Computed) Computed {
	c := inherit(parent)
	c.Display = DisplayBlock
	return c
}

// inherit derives a child's starting style from its parent's computed
// style: inherited properties copy over, the rest reset to initials.
func inherit(parent *Computed) Computed {
	c := initial()
	if parent == nil {
		return c
	}
	c.Color = parent.Color
	c.HasColor = parent.HasColor
	c.Bold = parent.Bold
	c.Italic = parent.Italic
	c.Underline = parent.Underline
	c.TextAlign = parent.TextAlign
	c.Pre = parent.Pre
	return c
}
