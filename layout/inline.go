package layout

import (
	"strings"

	"toad/dom"
	"toad/render"
	"toad/style"
)

// layoutInline flows the container's inline descendants into lines
// within b.Content and returns the height in rows.
func (c *ctx) layoutInline(b *Box) int {
	lb := &lineBuilder{width: b.Content.Width}
	c.inlineFlow(b.Children, lb)
	b.Lines = lb.finish(b.Content.Col, b.Content.Row, b.Style.TextAlign)
	return len(b.Lines)
}

func (c *ctx) inlineFlow(children []*Box, lb *lineBuilder) {
	for _, child := range children {
		switch child.Kind {
		case InlineBox:
			if child.Text != "" {
				if c.tree.Node(child.Node).Tag == "br" {
					lb.breakLine()
				} else if child.Style.Pre {
					lb.addPre(child.Text, child.Style, child.Node)
				} else {
					lb.addText(child.Text, child.Style, child.Node)
				}
			}
			c.inlineFlow(child.Children, lb)
		case ControlBox:
			w, _ := c.controlSize(child.Node, lb.width)
			if w > 0 {
				lb.addAtom(w, child.Style, child.Node)
			}
		}
	}
}

// lineBuilder performs greedy breaking: a word goes on the current
// line when it fits, otherwise the line breaks first. Words wider than
// the whole line are force-placed alone and clipped at paint.
type lineBuilder struct {
	width        int
	lines        []Line
	cur          []Fragment
	col          int
	pendingSpace bool
}

// addText feeds collapsed text: runs of whitespace become single break
// opportunities and never start a line.
func (lb *lineBuilder) addText(text string, st *style.Computed, node dom.NodeID) {
	if len(text) > 0 && isSpaceByte(text[0]) {
		lb.pendingSpace = true
	}
	words := strings.Fields(text)
	for i, word := range words {
		if i > 0 {
			lb.pendingSpace = true
		}
		lb.placeWord(word, st, node)
	}
	if len(text) > 0 && isSpaceByte(text[len(text)-1]) {
		lb.pendingSpace = true
	}
}

func (lb *lineBuilder) placeWord(word string, st *style.Computed, node dom.NodeID) {
	ww := render.StringWidth(word)
	sp := 0
	if lb.pendingSpace && lb.col > 0 {
		sp = 1
	}
	if lb.col > 0 && lb.col+sp+ww > lb.width {
		lb.breakLine()
		sp = 0
	}
	// Contiguous words of one node and style stay a single fragment.
	if len(lb.cur) > 0 {
		last := &lb.cur[len(lb.cur)-1]
		if last.Style == st && last.Node == node && !last.Control && last.Col+last.Width == lb.col {
			if sp == 1 {
				last.Text += " "
				last.Width++
				lb.col++
			}
			last.Text += word
			last.Width += ww
			lb.col += ww
			lb.pendingSpace = false
			return
		}
	}
	lb.col += sp
	lb.cur = append(lb.cur, Fragment{Col: lb.col, Width: ww, Text: word, Node: node, Style: st})
	lb.col += ww
	lb.pendingSpace = false
}

// addAtom places a fixed-width atomic fragment (a form control).
func (lb *lineBuilder) addAtom(w int, st *style.Computed, node dom.NodeID) {
	sp := 0
	if lb.pendingSpace && lb.col > 0 {
		sp = 1
	}
	if lb.col > 0 && lb.col+sp+w > lb.width {
		lb.breakLine()
		sp = 0
	}
	lb.col += sp
	lb.cur = append(lb.cur, Fragment{Col: lb.col, Width: w, Node: node, Style: st, Control: true})
	lb.col += w
	lb.pendingSpace = false
}

// addPre preserves spaces and newlines verbatim; long lines overflow
// and clip rather than wrap.
func (lb *lineBuilder) addPre(text string, st *style.Computed, node dom.NodeID) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	for i, seg := range strings.Split(text, "\n") {
		if i > 0 {
			lb.breakLine()
		}
		if seg == "" {
			continue
		}
		w := render.StringWidth(seg)
		lb.cur = append(lb.cur, Fragment{Col: lb.col, Width: w, Text: seg, Node: node, Style: st})
		lb.col += w
	}
	lb.pendingSpace = false
}

func (lb *lineBuilder) breakLine() {
	lb.lines = append(lb.lines, Line{Fragments: lb.cur})
	lb.cur = nil
	lb.col = 0
	lb.pendingSpace = false
}

// finish flushes the open line and converts builder-relative columns to
// absolute positions, applying text alignment per line.
func (lb *lineBuilder) finish(col, row int, align style.Align) []Line {
	if len(lb.cur) > 0 {
		lb.breakLine()
	}
	for i := range lb.lines {
		line := &lb.lines[i]
		line.Row = row + i
		shift := 0
		if n := len(line.Fragments); n > 0 && align != style.AlignLeft {
			last := line.Fragments[n-1]
			free := lb.width - (last.Col + last.Width)
			if free > 0 {
				if align == style.AlignCenter {
					shift = free / 2
				} else {
					shift = free
				}
			}
		}
		for j := range line.Fragments {
			line.Fragments[j].Col += col + shift
		}
	}
	return lb.lines
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
