package raster

import "image"

// FrameBuffer holds the synthesized view as a flat RGB slice for cache locality.
// Each pixel is written once; nothing reads it back until ToImage.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, len = W*H*3
}

// NewFrameBuffer allocates a black buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*3),
	}
}

// Set writes c at (col, row).
func (fb *FrameBuffer) Set(col, row int, c RGB) {
	i := (row*fb.Width + col) * 3
	fb.Pix[i] = c.R
	fb.Pix[i+1] = c.G
	fb.Pix[i+2] = c.B
}

// At returns the color at (col, row).
func (fb *FrameBuffer) At(col, row int) RGB {
	i := (row*fb.Width + col) * 3
	return RGB{fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]}
}

// ToImage converts the buffer to an opaque NRGBA image for encoding.
func (fb *FrameBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	n := fb.Width * fb.Height
	for p := 0; p < n; p++ {
		si, di := p*3, p*4
		img.Pix[di] = fb.Pix[si]
		img.Pix[di+1] = fb.Pix[si+1]
		img.Pix[di+2] = fb.Pix[si+2]
		img.Pix[di+3] = 255
	}
	return img
}
