// Package page assembles a document: it parses the markup, gathers
// stylesheets, runs the cascade, sizes images and lays out the box
// tree. A Page owns everything the painter needs.
package page

import (
	"image"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"toad/css"
	"toad/dom"
	"toad/form"
	"toad/images"
	"toad/layout"
	"toad/logging"
	"toad/style"
)

// Assets fetches a page's subresources. Implementations may return an
// error for anything they choose not to load; the page degrades
// gracefully (missing sheet is skipped, missing image paints its alt
// text).
type Assets interface {
	Stylesheet(u *url.URL) (string, error)
	Image(u *url.URL) (image.Image, error)
}

// Page is a fully built document.
type Page struct {
	Tree     *dom.Tree
	Styles   *style.Styles
	Root     *layout.Box
	Title    string
	URL      *url.URL
	Viewport layout.Viewport
	Forms    []form.Form

	imgs map[string]image.Image // keyed by resolved src
}

// Build parses src and produces a laid-out page. base resolves relative
// references; assets may be nil to skip external resources.
func Build(src string, base *url.URL, vp layout.Viewport, assets Assets) *Page {
	p := &Page{
		Tree: dom.Parse(src),
		URL:  base,
		imgs: map[string]image.Image{},
	}
	author := p.collectStylesheets(assets)
	p.Styles = style.Resolve(p.Tree, css.UserAgent(), author)
	p.Forms = form.Collect(p.Tree)
	p.Title = p.Tree.Title()
	if p.Title == "" && base != nil {
		p.Title = base.String()
	}
	p.loadImages(assets)
	p.Relayout(vp)
	return p
}

// Relayout lays the styled tree out again for a new viewport. The dom,
// computed styles and form state are untouched, so edits survive a
// resize.
func (p *Page) Relayout(vp layout.Viewport) {
	if vp.Cols < 1 {
		vp.Cols = 1
	}
	p.Viewport = vp
	p.Root = layout.Build(p.Tree, p.Styles, vp, p.sizeImage)
}

// Height is the document height in rows.
func (p *Page) Height() int {
	return p.Root.Height()
}

// collectStylesheets merges <style> blocks and linked sheets into one
// author stylesheet, in document order.
func (p *Page) collectStylesheets(assets Assets) *css.Stylesheet {
	sheet := css.ParseStylesheet("", css.OriginAuthor)
	p.Tree.Walk(p.Tree.Root, func(id dom.NodeID) bool {
		n := p.Tree.Node(id)
		if n.Type != dom.ElementNode {
			return true
		}
		switch n.Tag {
		case "style":
			sheet.Append(p.Tree.TextContent(id), css.OriginAuthor)
		case "link":
			if !isStylesheetLink(n) || assets == nil {
				return true
			}
			href, _ := n.Attr("href")
			u, err := p.resolve(href)
			if err != nil {
				return true
			}
			text, err := assets.Stylesheet(u)
			if err != nil {
				logging.L().Warn("stylesheet unavailable",
					zap.String("href", u.String()), zap.Error(err))
				return true
			}
			sheet.Append(text, css.OriginAuthor)
		}
		return true
	})
	return sheet
}

func isStylesheetLink(n *dom.Node) bool {
	rel, _ := n.Attr("rel")
	if !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
		return false
	}
	href, ok := n.Attr("href")
	return ok && href != ""
}

// loadImages fetches and decodes every <img> src once.
func (p *Page) loadImages(assets Assets) {
	if assets == nil {
		return
	}
	p.Tree.Walk(p.Tree.Root, func(id dom.NodeID) bool {
		n := p.Tree.Node(id)
		if n.Type != dom.ElementNode || n.Tag != "img" {
			return true
		}
		src, ok := n.Attr("src")
		if !ok || src == "" {
			return true
		}
		u, err := p.resolve(src)
		if err != nil {
			return true
		}
		key := u.String()
		if _, done := p.imgs[key]; done {
			return true
		}
		img, err := assets.Image(u)
		if err != nil {
			logging.L().Warn("image unavailable",
				zap.String("src", key), zap.Error(err))
			return true
		}
		p.imgs[key] = img
		return true
	})
}

// Image returns the decoded image for an <img> src, if it loaded.
func (p *Page) Image(src string) (image.Image, bool) {
	u, err := p.resolve(src)
	if err != nil {
		return nil, false
	}
	img, ok := p.imgs[u.String()]
	return img, ok
}

// sizeImage is the layout callback: cell footprint from decoded size
// and attributes.
func (p *Page) sizeImage(src string, attrW, attrH, maxCols int) (cols, rows int, ok bool) {
	img, found := p.Image(src)
	if !found {
		// Attribute-sized images reserve space even before (or without)
		// pixels, matching how pages are written to avoid reflow.
		if attrW > 0 {
			cols, rows = images.CellSize(attrW, attrH, attrW, attrH, maxCols)
			return cols, rows, cols > 0
		}
		return 0, 0, false
	}
	b := img.Bounds()
	cols, rows = images.CellSize(b.Dx(), b.Dy(), attrW, attrH, maxCols)
	return cols, rows, cols > 0
}

// FormFor returns the form owning the given control node, with the
// control itself.
func (p *Page) FormFor(id dom.NodeID) (*form.Form, *form.Control) {
	for i := range p.Forms {
		if c := p.Forms[i].ControlByNode(id); c != nil {
			return &p.Forms[i], c
		}
	}
	return nil, nil
}

func (p *Page) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	if p.URL != nil {
		return p.URL.ResolveReference(u), nil
	}
	return u, nil
}

// Resolve resolves a link href against the page URL, returning the
// absolute string form.
func (p *Page) Resolve(href string) (string, error) {
	u, err := p.resolve(href)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
