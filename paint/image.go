package paint

import (
	"image"

	"golang.org/x/image/draw"

	"toad/layout"
	"toad/page"
	"toad/render"
)

// paintImage renders a replaced box: half-block cells for a decoded
// image, bracketed alt text otherwise.
func (pt *Painter) paintImage(pg *page.Page, b *layout.Box, scroll int) {
	r := b.Content
	if r.Width < 1 || r.Height < 1 {
		return
	}
	var img image.Image
	if pt.ShowImages && !b.Image.Placeholder {
		img, _ = pg.Image(b.Image.Src)
	}
	if img == nil {
		row := r.Row - scroll
		if row >= 0 && row < pt.Canvas.Height() {
			st := render.Style{Fg: pt.Theme.UI.Render()}
			pt.Canvas.WriteStringMax(r.Col, row, "["+b.Image.Alt+"]", r.Width, st)
		}
		return
	}

	// Each cell shows two pixel rows through '▀': foreground paints the
	// top half, background the bottom.
	scaled := scaleTo(img, r.Width, 2*r.Height)
	base := pt.Theme.Background.Render()
	for y := 0; y < r.Height; y++ {
		row := r.Row + y - scroll
		if row < 0 || row >= pt.Canvas.Height() {
			continue
		}
		for x := 0; x < r.Width; x++ {
			top, topOpaque := cellColor(scaled, x, 2*y)
			bottom, bottomOpaque := cellColor(scaled, x, 2*y+1)
			under := pt.Canvas.Get(r.Col+x, row).Style.Bg
			if !under.Set {
				under = base
			}
			if !topOpaque {
				top = under
			}
			if !bottomOpaque {
				bottom = under
			}
			pt.Canvas.Set(r.Col+x, row, '▀', render.Style{Fg: top, Bg: bottom})
		}
	}
}

func scaleTo(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// cellColor samples one pixel; transparent pixels report opaque=false
// so the page background shows through.
func cellColor(img *image.RGBA, x, y int) (render.Color, bool) {
	c := img.RGBAAt(x, y)
	if c.A == 0 {
		return render.Color{}, false
	}
	return render.RGB(c.R, c.G, c.B), true
}
