// Package imageio decodes light-field captures and encodes synthesized views.
package imageio

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// InputExtensions lists the accepted capture extensions, in lookup order.
var InputExtensions = []string{".bmp", ".png", ".jpg", ".jpeg", ".tga", ".tif", ".tiff", ".webp"}

// Load reads and decodes the image at path into a non-premultiplied NRGBA
// image whose bounds start at the origin.
func Load(path string) (*image.NRGBA, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA anchored at (0, 0). Color channels of
// translucent pixels are kept as stored, not premultiplied.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	n, isNRGBA := src.(*image.NRGBA)
	if isNRGBA && b.Min == (image.Point{}) {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if isNRGBA {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// IsSupportedInput reports whether ext (with or without the dot) is a
// decodable capture extension.
func IsSupportedInput(ext string) bool {
	ext = normalizeExt(ext)
	for _, e := range InputExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
