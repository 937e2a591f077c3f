package imageio

import (
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestSaveLoadLossless(t *testing.T) {
	want := color.RGBA{12, 200, 77, 255}
	dir := t.TempDir()

	for _, ext := range []string{".bmp", ".png", ".tga", ".tiff", ".webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "view"+ext)
			if err := Save(path, solid(5, 4, want)); err != nil {
				t.Fatalf("Save(%s) error = %v", path, err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%s) error = %v", path, err)
			}
			if b := got.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
				t.Fatalf("Load(%s) bounds = %v, want 5x4", path, b)
			}
			if c := got.NRGBAAt(4, 3); c != color.NRGBA(want) {
				t.Errorf("Load(%s).NRGBAAt(4, 3) = %v, want %v", path, c, want)
			}
		})
	}
}

func TestSaveLoadJPEG(t *testing.T) {
	want := color.RGBA{120, 120, 120, 255}
	path := filepath.Join(t.TempDir(), "view.jpg")
	if err := Save(path, solid(8, 8, want)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c := got.NRGBAAt(3, 3)
	for _, ch := range []struct{ got, want uint8 }{{c.R, want.R}, {c.G, want.G}, {c.B, want.B}} {
		if d := int(ch.got) - int(ch.want); d < -4 || d > 4 {
			t.Fatalf("NRGBAAt(3, 3) = %v, want within 4 of %v", c, want)
		}
	}
}

func TestLoadKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	want := color.NRGBA{200, 100, 50, 128}
	src.SetNRGBA(1, 1, want)

	path := filepath.Join(t.TempDir(), "cam001.png")
	if err := Save(path, src); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c := got.NRGBAAt(1, 1); c != want {
		t.Errorf("NRGBAAt(1, 1) = %v, want %v", c, want)
	}
}

func TestToNRGBARebasesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 3, color.NRGBA{9, 8, 7, 255})
	sub := src.SubImage(image.Rect(1, 1, 4, 4))

	got := toNRGBA(sub)
	if b := got.Bounds(); b != image.Rect(0, 0, 3, 3) {
		t.Fatalf("bounds = %v, want (0,0)-(3,3)", b)
	}
	if c := got.NRGBAAt(1, 2); c != (color.NRGBA{9, 8, 7, 255}) {
		t.Errorf("NRGBAAt(1, 2) = %v, want {9 8 7 255}", c)
	}
}

func TestSaveRemovesFileOnEncodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := Save(path, image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("Save() of 0x0 image error = nil")
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat() after failed Save error = %v, want not exist", err)
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.webp")
	if err := Save(path, solid(2, 2, color.RGBA{1, 2, 3, 255})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() of saved webp error = %v", err)
	}
}

func TestEncoderForUnknownExtension(t *testing.T) {
	if _, err := EncoderFor("out.gif"); err == nil {
		t.Error("EncoderFor(out.gif) error = nil, want unsupported extension")
	}
	if _, err := EncoderFor("OUT.BMP"); err != nil {
		t.Errorf("EncoderFor(OUT.BMP) error = %v, want nil", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "cam001.bmp")); err == nil {
		t.Error("Load() of missing file error = nil")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cam001.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of .gif error = nil, want unsupported extension")
	}
}

func TestIsSupportedInput(t *testing.T) {
	tests := map[string]bool{
		"bmp":   true,
		".PNG":  true,
		".webp": true,
		".gif":  false,
		"":      false,
	}
	for ext, want := range tests {
		if got := IsSupportedInput(ext); got != want {
			t.Errorf("IsSupportedInput(%q) = %v, want %v", ext, got, want)
		}
	}
}
