package page

import (
	"fmt"
	"image"
	"net/url"
	"testing"

	"toad/dom"
	"toad/layout"
)

type fakeAssets struct {
	sheets map[string]string
	images map[string]image.Image
}

func (f *fakeAssets) Stylesheet(u *url.URL) (string, error) {
	if s, ok := f.sheets[u.String()]; ok {
		return s, nil
	}
	return "", fmt.Errorf("no sheet %s", u)
}

func (f *fakeAssets) Image(u *url.URL) (image.Image, error) {
	if img, ok := f.images[u.String()]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("no image %s", u)
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func vp(cols, rows int) layout.Viewport { return layout.Viewport{Cols: cols, Rows: rows} }

func TestBuildProducesTitleAndLayout(t *testing.T) {
	p := Build(`<html><head><title>Hello</title></head><body><p>text</p></body></html>`,
		mustURL(t, "http://example.com/"), vp(40, 20), nil)
	if p.Title != "Hello" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Root == nil || p.Height() == 0 {
		t.Error("expected a laid-out box tree")
	}
}

func TestMissingTitleFallsBackToURL(t *testing.T) {
	p := Build(`<p>x</p>`, mustURL(t, "http://example.com/a"), vp(40, 20), nil)
	if p.Title != "http://example.com/a" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestLinkedStylesheetApplies(t *testing.T) {
	assets := &fakeAssets{sheets: map[string]string{
		"http://h/site.css": "p { color: red }",
	}}
	p := Build(`<head><link rel="stylesheet" href="/site.css"></head><body><p>x</p></body>`,
		mustURL(t, "http://h/page"), vp(40, 20), assets)
	pID := p.Tree.FindFirst("p")
	if pID == dom.NoNode {
		t.Fatal("no <p>")
	}
	c := p.Styles.For(pID)
	if !c.HasColor || c.Color.R != 255 || c.Color.G != 0 {
		t.Errorf("color = %+v, want red from linked sheet", c.Color)
	}
}

func TestUnavailableStylesheetSkipped(t *testing.T) {
	p := Build(`<head><link rel="stylesheet" href="/gone.css"></head><body><p>x</p></body>`,
		mustURL(t, "http://h/"), vp(40, 20), &fakeAssets{})
	if p.Root == nil {
		t.Fatal("page must still build without its sheet")
	}
}

func TestStyleElementApplies(t *testing.T) {
	p := Build(`<style>p { font-weight: bold }</style><p>x</p>`,
		mustURL(t, "http://h/"), vp(40, 20), nil)
	c := p.Styles.For(p.Tree.FindFirst("p"))
	if !c.Bold {
		t.Error("style element did not apply")
	}
}

func TestImageSizedFromDecodedPixels(t *testing.T) {
	assets := &fakeAssets{images: map[string]image.Image{
		"http://h/pic.png": image.NewRGBA(image.Rect(0, 0, 80, 32)),
	}}
	p := Build(`<img src="pic.png" alt="pic">`, mustURL(t, "http://h/"), vp(40, 20), assets)
	var img *layout.Box
	p.Root.Walk(func(b *layout.Box) {
		if b.Kind == layout.ReplacedBox {
			img = b
		}
	})
	if img == nil {
		t.Fatal("no replaced box")
	}
	// 80x32 px is 10x2 cells.
	if img.Content.Width != 10 || img.Content.Height != 2 {
		t.Errorf("image box = %dx%d, want 10x2", img.Content.Width, img.Content.Height)
	}
	if img.Image.Placeholder {
		t.Error("loaded image must not be a placeholder")
	}
}

func TestMissingImagePaintsAlt(t *testing.T) {
	p := Build(`<img src="gone.png" alt="a cat">`, mustURL(t, "http://h/"), vp(40, 20), &fakeAssets{})
	var img *layout.Box
	p.Root.Walk(func(b *layout.Box) {
		if b.Kind == layout.ReplacedBox {
			img = b
		}
	})
	if img == nil || !img.Image.Placeholder {
		t.Fatal("expected a placeholder box")
	}
}

func TestRelayoutKeepsFormEdits(t *testing.T) {
	p := Build(`<form action="/s"><input name="q" value=""></form>`,
		mustURL(t, "http://h/"), vp(80, 24), nil)
	input := p.Tree.FindFirst("input")
	f, c := p.FormFor(input)
	if f == nil || c == nil {
		t.Fatal("control not found")
	}
	c.Value = "typed"
	p.Relayout(vp(40, 24))
	_, c2 := p.FormFor(input)
	if c2.Value != "typed" {
		t.Errorf("value after relayout = %q", c2.Value)
	}
	if p.Viewport.Cols != 40 {
		t.Errorf("viewport = %+v", p.Viewport)
	}
}

func TestRelayoutIsDeterministic(t *testing.T) {
	p := Build(`<h1>Title</h1><p>some body text that wraps across lines</p>`,
		mustURL(t, "http://h/"), vp(20, 10), nil)
	h1 := p.Height()
	p.Relayout(vp(20, 10))
	if p.Height() != h1 {
		t.Errorf("height changed on identical relayout: %d vs %d", h1, p.Height())
	}
}

func TestResolveRelativeLink(t *testing.T) {
	p := Build(`<a href="sub/x">x</a>`, mustURL(t, "http://h/dir/page"), vp(40, 20), nil)
	got, err := p.Resolve("sub/x")
	if err != nil {
		t.Fatal(err)
	}
	if got != "http://h/dir/sub/x" {
		t.Errorf("resolved = %q", got)
	}
}
