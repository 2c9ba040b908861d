package layout

import (
	"sort"
	"strings"
	"testing"

	"toad/css"
	"toad/dom"
	"toad/style"
)

func buildTree(t *testing.T, src, sheet string, cols int, sizer SizeImage) *Box {
	t.Helper()
	tree := dom.Parse(src)
	author := css.ParseStylesheet(sheet, css.OriginAuthor)
	styles := style.Resolve(tree, css.UserAgent(), author)
	return Build(tree, styles, Viewport{Cols: cols, Rows: 24}, sizer)
}

// textRows flattens the laid-out fragments back into strings, one per
// row, with column positions preserved.
func textRows(root *Box) []string {
	frags := map[int][]Fragment{}
	maxRow := 0
	root.Walk(func(b *Box) {
		for _, l := range b.Lines {
			frags[l.Row] = append(frags[l.Row], l.Fragments...)
			if l.Row > maxRow {
				maxRow = l.Row
			}
		}
	})
	out := make([]string, maxRow+1)
	for row, fs := range frags {
		sort.Slice(fs, func(i, j int) bool { return fs[i].Col < fs[j].Col })
		var line []rune
		for _, f := range fs {
			for len(line) < f.Col {
				line = append(line, ' ')
			}
			line = append(line, []rune(f.Text)...)
		}
		out[row] = string(line)
	}
	return out
}

func nonEmptyRows(root *Box) []string {
	var out []string
	for _, s := range textRows(root) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func rowOf(t *testing.T, root *Box, substr string) int {
	t.Helper()
	for i, s := range textRows(root) {
		if strings.Contains(s, substr) {
			return i
		}
	}
	t.Fatalf("%q not found in layout", substr)
	return -1
}

func TestGreedyWrapAtTwentyColumns(t *testing.T) {
	root := buildTree(t, "<p>the quick brown fox jumps over</p>",
		"body{margin:0} p{margin:0}", 20, nil)
	lines := nonEmptyRows(root)
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.TrimSpace(lines[0]) != "the quick brown fox" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "jumps over" {
		t.Errorf("line 1 = %q", lines[1])
	}
	for i, l := range lines {
		if len([]rune(l)) > 20 {
			t.Errorf("line %d exceeds 20 cells: %q", i, l)
		}
	}
	joined := strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
	if joined != "the quick brown fox jumps over" {
		t.Errorf("words reordered or lost: %q", joined)
	}
}

func TestOverlongWordForcedOntoOwnLine(t *testing.T) {
	root := buildTree(t, "<p>a extraordinarily b</p>", "body{margin:0} p{margin:0}", 10, nil)
	lines := nonEmptyRows(root)
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.TrimSpace(lines[1]) != "extraordinarily" {
		t.Errorf("middle line = %q", lines[1])
	}
}

func TestAdjacentVerticalMarginsCollapse(t *testing.T) {
	root := buildTree(t, "<p>one</p><p>two</p>", "body{margin:0}", 40, nil)
	// 16px margins are one row each; between the paragraphs they
	// collapse to a single blank row.
	r1 := rowOf(t, root, "one")
	r2 := rowOf(t, root, "two")
	if r1 != 1 {
		t.Errorf("first paragraph row = %d, want 1", r1)
	}
	if r2-r1 != 2 {
		t.Errorf("gap = %d rows, want 2 (collapsed)", r2-r1)
	}
}

func TestAnonymousBlockWrapsLooseText(t *testing.T) {
	root := buildTree(t, "<div>loose<p>para</p></div>", "body{margin:0}", 40, nil)
	if rowOf(t, root, "loose") >= rowOf(t, root, "para") {
		t.Error("loose text must lay out above the paragraph")
	}
	anon := false
	root.Walk(func(b *Box) {
		if b.Kind == AnonymousBox {
			anon = true
			if b.Margin != (Edges{}) {
				t.Errorf("anonymous box has margins: %+v", b.Margin)
			}
		}
	})
	if !anon {
		t.Error("no anonymous box generated")
	}
}

func TestPreformattedLinesKeptVerbatim(t *testing.T) {
	root := buildTree(t, "<pre>line one\n  indented</pre>", "body{margin:0} pre{margin:0}", 40, nil)
	lines := nonEmptyRows(root)
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "line one" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "  indented" {
		t.Errorf("line 1 = %q, want leading spaces kept", lines[1])
	}
}

func TestHeadingCentered(t *testing.T) {
	root := buildTree(t, "<h1>hi</h1>", "body{margin:0} h1{margin:0}", 20, nil)
	var frag *Fragment
	root.Walk(func(b *Box) {
		for _, l := range b.Lines {
			for i := range l.Fragments {
				frag = &l.Fragments[i]
			}
		}
	})
	if frag == nil {
		t.Fatal("no fragment")
	}
	if frag.Col != 9 {
		t.Errorf("centered col = %d, want 9", frag.Col)
	}
}

func TestRightAlignment(t *testing.T) {
	root := buildTree(t, "<p>end</p>", "body{margin:0} p{margin:0;text-align:right}", 20, nil)
	lines := textRows(root)
	if len(lines) == 0 || !strings.HasSuffix(lines[0], "end") {
		t.Fatalf("lines = %q", lines)
	}
	if len([]rune(lines[0])) != 20 {
		t.Errorf("right-aligned text ends at col %d, want 20", len([]rune(lines[0])))
	}
}

func TestControlFootprints(t *testing.T) {
	root := buildTree(t,
		`<form><input size="5" name="a"><input type="checkbox" name="b"><input type="submit" value="Go"></form>`,
		"body{margin:0}", 60, nil)
	var widths []int
	root.Walk(func(b *Box) {
		for _, l := range b.Lines {
			for _, f := range l.Fragments {
				if f.Control {
					widths = append(widths, f.Width)
				}
			}
		}
	})
	want := []int{7, 3, 4} // size+2, checkbox, "Go"+2
	if len(widths) != len(want) {
		t.Fatalf("widths = %v", widths)
	}
	for i := range want {
		if widths[i] != want[i] {
			t.Errorf("control %d width = %d, want %d", i, widths[i], want[i])
		}
	}
}

func TestImageSizedByCallback(t *testing.T) {
	sizer := func(src string, attrW, attrH, maxCols int) (int, int, bool) {
		return 10, 2, true
	}
	root := buildTree(t, `<img src="x.png" alt="x">`, "body{margin:0}", 40, sizer)
	var img *Box
	root.Walk(func(b *Box) {
		if b.Kind == ReplacedBox {
			img = b
		}
	})
	if img == nil {
		t.Fatal("no replaced box")
	}
	if img.Content.Width != 10 || img.Content.Height != 2 {
		t.Errorf("image = %dx%d", img.Content.Width, img.Content.Height)
	}
}

func TestUnsizedImageBecomesPlaceholder(t *testing.T) {
	root := buildTree(t, `<img src="x.png" alt="cat">`, "body{margin:0}", 40, nil)
	var img *Box
	root.Walk(func(b *Box) {
		if b.Kind == ReplacedBox {
			img = b
		}
	})
	if img == nil || !img.Image.Placeholder {
		t.Fatal("expected placeholder")
	}
	if img.Content.Width != 5 || img.Content.Height != 1 {
		t.Errorf("placeholder = %dx%d, want 5x1", img.Content.Width, img.Content.Height)
	}
}

func TestOrderedListNumbering(t *testing.T) {
	root := buildTree(t, "<ol><li>a</li><li>b</li><li>c</li></ol>", "body{margin:0}", 40, nil)
	var markers []string
	root.Walk(func(b *Box) {
		if b.Marker != "" {
			markers = append(markers, b.Marker)
		}
	})
	want := []string{"1.", "2.", "3."}
	if len(markers) != 3 {
		t.Fatalf("markers = %v", markers)
	}
	for i := range want {
		if markers[i] != want[i] {
			t.Errorf("marker %d = %q", i, markers[i])
		}
	}
}

func TestUnorderedListBullets(t *testing.T) {
	root := buildTree(t, "<ul><li>a</li></ul>", "body{margin:0}", 40, nil)
	found := false
	root.Walk(func(b *Box) {
		if b.Marker == "•" {
			found = true
		}
	})
	if !found {
		t.Error("no bullet marker")
	}
}

func TestPercentWidth(t *testing.T) {
	root := buildTree(t, "<div>x</div>", "body{margin:0} div{width:50%}", 40, nil)
	var div *Box
	root.Walk(func(b *Box) {
		if b.Kind == BlockBox && len(b.Lines) > 0 {
			div = b
		}
	})
	if div == nil {
		t.Fatal("no div box")
	}
	if div.Content.Width != 20 {
		t.Errorf("width = %d, want 20", div.Content.Width)
	}
}

func TestExplicitPixelHeight(t *testing.T) {
	root := buildTree(t, "<div>x</div>", "body{margin:0} div{height:48px}", 40, nil)
	var div *Box
	root.Walk(func(b *Box) {
		if b.Kind == BlockBox && len(b.Lines) > 0 {
			div = b
		}
	})
	if div == nil || div.Content.Height != 3 {
		t.Fatalf("height = %+v", div)
	}
}

func TestBorderAddsOneCellEachSide(t *testing.T) {
	root := buildTree(t, "<div>x</div>", "body{margin:0} div{border:solid}", 40, nil)
	var div *Box
	root.Walk(func(b *Box) {
		if b.Kind == BlockBox && b.Style.Border {
			div = b
		}
	})
	if div == nil {
		t.Fatal("no bordered box")
	}
	r := div.BorderBox()
	if r.Height != div.Content.Height+2 || r.Width != div.Content.Width+2 {
		t.Errorf("border box %+v vs content %+v", r, div.Content)
	}
}

func TestBlockInsideLinkStillLaidOut(t *testing.T) {
	root := buildTree(t, `<a href="/x"><div>card text</div></a>`,
		"body{margin:0} div{margin:0}", 40, nil)
	found := false
	for _, s := range textRows(root) {
		if strings.Contains(s, "card text") {
			found = true
		}
	}
	if !found {
		t.Fatal("block content inside a link missing from layout")
	}
}

func TestInlineWithBlockContentStacksItsParts(t *testing.T) {
	root := buildTree(t, `<a href="/x">intro<div>card body</div>outro</a>`,
		"body{margin:0} div{margin:0}", 40, nil)
	ri := rowOf(t, root, "intro")
	rc := rowOf(t, root, "card body")
	ro := rowOf(t, root, "outro")
	if !(ri < rc && rc < ro) {
		t.Errorf("rows intro=%d card=%d outro=%d, want stacked in order", ri, rc, ro)
	}
}

func TestDisplayNoneGeneratesNoBox(t *testing.T) {
	root := buildTree(t, `<p>shown</p><p style="display:none">hidden</p>`, "body{margin:0}", 40, nil)
	for _, s := range textRows(root) {
		if strings.Contains(s, "hidden") {
			t.Error("display:none content leaked into layout")
		}
	}
}

func TestEmptyBodyStillBuilds(t *testing.T) {
	root := buildTree(t, "", "", 40, nil)
	if root == nil {
		t.Fatal("nil root")
	}
	if root.Height() < 0 {
		t.Error("negative height")
	}
}
