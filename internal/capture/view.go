// Package capture owns the decoded light-field captures: the per-view pixel
// store, the directory index that locates cam%03d files, and the grid loader.
package capture

import (
	"image"

	"lfsynth/internal/raster"
)

// View is one decoded capture, addressed by (col, row). Read-only once loaded.
type View struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved
}

// NewView copies the color channels of img into a View. Alpha is dropped
// without premultiplying.
func NewView(img *image.NRGBA) *View {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	v := &View{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := v.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return v
}

// NewUniformView returns a w x h view filled with c.
func NewUniformView(w, h int, c raster.RGB) *View {
	v := &View{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
	for i := 0; i < len(v.Pix); i += 3 {
		v.Pix[i], v.Pix[i+1], v.Pix[i+2] = c.R, c.G, c.B
	}
	return v
}

// At returns the pixel at (col, row).
func (v *View) At(col, row int) raster.RGB {
	i := (row*v.Width + col) * 3
	return raster.RGB{R: v.Pix[i], G: v.Pix[i+1], B: v.Pix[i+2]}
}
