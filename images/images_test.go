package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(pngBytes(t, 16, 32))
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 16 || b.Dy() != 32 {
		t.Errorf("bounds = %v", b)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected an error for junk bytes")
	}
}

func TestCellSize(t *testing.T) {
	cases := []struct {
		name                     string
		pxW, pxH, attrW, attrH   int
		maxCols                  int
		wantCols, wantRows       int
	}{
		{"intrinsic", 80, 32, 0, 0, 100, 10, 2},
		{"rounds up", 81, 33, 0, 0, 100, 11, 3},
		{"attr overrides", 800, 320, 80, 32, 100, 10, 2},
		{"attr width keeps aspect", 160, 320, 80, 0, 100, 10, 10},
		{"clamps to max", 800, 160, 0, 0, 20, 20, 2},
		{"zero size", 0, 0, 0, 0, 100, 0, 0},
	}
	for _, c := range cases {
		cols, rows := CellSize(c.pxW, c.pxH, c.attrW, c.attrH, c.maxCols)
		if cols != c.wantCols || rows != c.wantRows {
			t.Errorf("%s: CellSize = (%d, %d), want (%d, %d)", c.name, cols, rows, c.wantCols, c.wantRows)
		}
	}
}
