// Package images decodes the formats the browser accepts and converts
// intrinsic pixel sizes to cell footprints.
package images

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"toad/css"
)

// Decode parses raw image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// CellSize converts an image's pixel size to cells. Width/height
// attributes (in pixels) override the intrinsic size; the result is
// clamped to maxCols preserving aspect ratio. An 8x16 pixel tile is
// one cell.
func CellSize(pxW, pxH, attrW, attrH, maxCols int) (cols, rows int) {
	if attrW > 0 {
		if attrH <= 0 && pxW > 0 {
			attrH = attrW * pxH / pxW
		}
		pxW, pxH = attrW, attrH
	} else if attrH > 0 {
		if pxH > 0 {
			pxW = attrH * pxW / pxH
		}
		pxH = attrH
	}
	if pxW <= 0 || pxH <= 0 {
		return 0, 0
	}
	cols = ceilDiv(pxW, css.EMPixels)
	rows = ceilDiv(pxH, css.LHPixels)
	if maxCols > 0 && cols > maxCols {
		rows = rows * maxCols / cols
		if rows < 1 {
			rows = 1
		}
		cols = maxCols
	}
	return cols, rows
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
