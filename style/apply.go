package style

import (
	"strings"

	"toad/css"
)

// apply folds one declaration into c. Unknown properties and
// uninterpretable values are ignored, matching the parser's tolerance.
func apply(c *Computed, parent *Computed, prop, raw string) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return
	}
	if value == "inherit" {
		applyInherit(c, parent, prop)
		return
	}
	switch prop {
	case "display":
		switch value {
		case "block":
			c.Display = DisplayBlock
		case "inline", "inline-block":
			c.Display = DisplayInline
		case "list-item":
			c.Display = DisplayListItem
		case "none":
			c.Display = DisplayNone
		case "flex", "grid", "table", "table-row", "table-cell":
			// Unsupported layout modes degrade to block flow.
			c.Display = DisplayBlock
		}
	case "color":
		if col, ok := css.ParseColor(value); ok {
			c.Color = col
			c.HasColor = true
		}
	case "background", "background-color":
		if value == "none" || value == "transparent" {
			c.HasBackground = false
			return
		}
		// Shorthand may carry images and positions; take the first
		// component that reads as a color.
		for _, part := range strings.Fields(value) {
			if col, ok := css.ParseColor(part); ok {
				c.Background = col
				c.HasBackground = true
				return
			}
		}
	case "font-weight":
		switch {
		case value == "bold" || value == "bolder":
			c.Bold = true
		case value == "normal" || value == "lighter":
			c.Bold = false
		case len(value) == 3 && value >= "600":
			c.Bold = true
		case len(value) == 3:
			c.Bold = false
		}
	case "font-style":
		switch value {
		case "italic", "oblique":
			c.Italic = true
		case "normal":
			c.Italic = false
		}
	case "text-decoration", "text-decoration-line":
		switch {
		case strings.Contains(value, "underline"):
			c.Underline = true
		case value == "none":
			c.Underline = false
		}
	case "text-align":
		switch value {
		case "left", "start", "justify":
			c.TextAlign = AlignLeft
		case "center":
			c.TextAlign = AlignCenter
		case "right", "end":
			c.TextAlign = AlignRight
		}
	case "white-space":
		switch value {
		case "pre", "pre-wrap", "pre-line":
			c.Pre = true
		case "normal", "nowrap":
			c.Pre = false
		}
	case "width":
		if l, ok := css.ParseLength(value); ok {
			c.Width = l
		}
	case "height":
		if l, ok := css.ParseLength(value); ok {
			c.Height = l
		}
	case "margin":
		if edges, ok := parseEdges(value); ok {
			c.Margin = edges
		}
	case "margin-top":
		applyEdge(&c.Margin, EdgeTop, value)
	case "margin-right":
		applyEdge(&c.Margin, EdgeRight, value)
	case "margin-bottom":
		applyEdge(&c.Margin, EdgeBottom, value)
	case "margin-left":
		applyEdge(&c.Margin, EdgeLeft, value)
	case "padding":
		if edges, ok := parseEdges(value); ok {
			c.Padding = edges
		}
	case "padding-top":
		applyEdge(&c.Padding, EdgeTop, value)
	case "padding-right":
		applyEdge(&c.Padding, EdgeRight, value)
	case "padding-bottom":
		applyEdge(&c.Padding, EdgeBottom, value)
	case "padding-left":
		applyEdge(&c.Padding, EdgeLeft, value)
	case "border", "border-style":
		if value == "none" || value == "hidden" {
			c.Border = false
			return
		}
		c.Border = true
		for _, part := range strings.Fields(value) {
			if col, ok := css.ParseColor(part); ok {
				c.BorderColor = col
				c.HasBorderColor = true
			}
		}
	case "border-color":
		if col, ok := css.ParseColor(value); ok {
			c.BorderColor = col
			c.HasBorderColor = true
		}
	}
}

func applyInherit(c *Computed, parent *Computed, prop string) {
	if parent == nil {
		return
	}
	switch prop {
	case "display":
		c.Display = parent.Display
	case "color":
		c.Color, c.HasColor = parent.Color, parent.HasColor
	case "background", "background-color":
		c.Background, c.HasBackground = parent.Background, parent.HasBackground
	case "font-weight":
		c.Bold = parent.Bold
	case "font-style":
		c.Italic = parent.Italic
	case "text-decoration", "text-decoration-line":
		c.Underline = parent.Underline
	case "text-align":
		c.TextAlign = parent.TextAlign
	case "white-space":
		c.Pre = parent.Pre
	case "width":
		c.Width = parent.Width
	case "height":
		c.Height = parent.Height
	case "margin":
		c.Margin = parent.Margin
	case "padding":
		c.Padding = parent.Padding
	}
}

// parseEdges expands the 1-4 value margin/padding shorthand.
func parseEdges(value string) ([4]css.Length, bool) {
	fields := strings.Fields(value)
	var ls []css.Length
	for _, f := range fields {
		l, ok := css.ParseLength(f)
		if !ok {
			return [4]css.Length{}, false
		}
		ls = append(ls, l)
	}
	switch len(ls) {
	case 1:
		return [4]css.Length{ls[0], ls[0], ls[0], ls[0]}, true
	case 2:
		return [4]css.Length{ls[0], ls[1], ls[0], ls[1]}, true
	case 3:
		return [4]css.Length{ls[0], ls[1], ls[2], ls[1]}, true
	case 4:
		return [4]css.Length{ls[0], ls[1], ls[2], ls[3]}, true
	}
	return [4]css.Length{}, false
}

func applyEdge(edges *[4]css.Length, i int, value string) {
	if l, ok := css.ParseLength(value); ok {
		edges[i] = l
	}
}
