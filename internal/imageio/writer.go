package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes img to w.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	".bmp":  bmp.Encode,
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".tga":  tga.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
	".webp": encodeWebP,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

func encodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// EncoderFor returns the encoder matching the extension of path.
func EncoderFor(path string) (Encoder, error) {
	ext := normalizeExt(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("imageio: unsupported output extension %q", ext)
	}
	return enc, nil
}

// Save encodes img to path, picking the format from the extension.
// Parent directories are created as needed. A failed encode leaves no file
// behind.
func Save(path string, img image.Image) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := enc(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return f.Close()
}
