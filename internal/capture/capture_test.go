package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"lfsynth/internal/grid"
	"lfsynth/internal/imageio"
	"lfsynth/internal/raster"
)

var smallLayout = grid.Layout{Rows: 3, Cols: 3, Baseline: 10}

// writeCaptures writes n solid captures whose red channel encodes the
// capture number.
func writeCaptures(t *testing.T, dir, ext string, n, w, h int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = uint8(i), 7, 9, 255
		}
		path := filepath.Join(dir, fmt.Sprintf("cam%03d%s", i, ext))
		if err := imageio.Save(path, img); err != nil {
			t.Fatalf("Save(%s) error = %v", path, err)
		}
	}
}

func TestLoad_Order(t *testing.T) {
	dir := t.TempDir()
	writeCaptures(t, dir, ".png", smallLayout.Len(), 4, 4)

	src, err := NewDirSource(dir, "", "")
	if err != nil {
		t.Fatalf("NewDirSource() error = %v", err)
	}
	g, err := Load(src, smallLayout, 4, 4)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(g.Views) != 9 {
		t.Fatalf("len(Views) = %d, want 9", len(g.Views))
	}
	for i, v := range g.Views {
		want := raster.RGB{R: uint8(i + 1), G: 7, B: 9}
		if got := v.At(3, 3); got != want {
			t.Errorf("View(%d).At(3, 3) = %v, want %v", i, got, want)
		}
	}
}

func TestLoad_FixedExtension(t *testing.T) {
	dir := t.TempDir()
	writeCaptures(t, dir, ".bmp", smallLayout.Len(), 2, 2)

	src, err := NewDirSource(dir, "cam%03d", "bmp")
	if err != nil {
		t.Fatalf("NewDirSource() error = %v", err)
	}
	if _, err := Load(src, smallLayout, 2, 2); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoad_MissingCapture(t *testing.T) {
	dir := t.TempDir()
	writeCaptures(t, dir, ".png", smallLayout.Len(), 2, 2)
	if err := os.Remove(filepath.Join(dir, "cam005.png")); err != nil {
		t.Fatal(err)
	}

	src, err := NewDirSource(dir, "", "")
	if err != nil {
		t.Fatalf("NewDirSource() error = %v", err)
	}
	_, err = Load(src, smallLayout, 2, 2)
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("Load() error = %v, want ErrResourceLoad", err)
	}
}

func TestLoad_CorruptCapture(t *testing.T) {
	dir := t.TempDir()
	writeCaptures(t, dir, ".png", smallLayout.Len(), 2, 2)
	if err := os.WriteFile(filepath.Join(dir, "cam009.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	src, _ := NewDirSource(dir, "", "")
	if _, err := Load(src, smallLayout, 2, 2); !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("Load() error = %v, want ErrResourceLoad", err)
	}
}

func TestLoad_ResolutionMismatch(t *testing.T) {
	dir := t.TempDir()
	writeCaptures(t, dir, ".png", smallLayout.Len(), 3, 2)

	src, _ := NewDirSource(dir, "", "")
	if _, err := Load(src, smallLayout, 2, 2); !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("Load() error = %v, want ErrResourceLoad", err)
	}
}

func TestNewDirSource_MissingDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "nope"), "", "")
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("NewDirSource() error = %v, want ErrResourceLoad", err)
	}
}

func TestBuildIndex_ExtensionPriority(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{1, 1, 1, 255})
	for _, name := range []string{"CAM001.png", "cam001.bmp", "notes.txt"} {
		if name == "notes.txt" {
			if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := imageio.Save(filepath.Join(dir, name), img); err != nil {
			t.Fatal(err)
		}
	}

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	path, ok := idx.ResolvePath("cam001")
	if !ok || filepath.Base(path) != "cam001.bmp" {
		t.Errorf("ResolvePath(cam001) = (%q, %v), want cam001.bmp", path, ok)
	}
}

func TestNewView(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 128})
	v := NewView(img)
	if got, want := v.At(2, 1), (raster.RGB{R: 10, G: 20, B: 30}); got != want {
		t.Errorf("At(2, 1) = %v, want %v", got, want)
	}
	if got, want := v.At(1, 0), (raster.RGB{R: 200, G: 100, B: 50}); got != want {
		t.Errorf("At(1, 0) of translucent pixel = %v, want %v", got, want)
	}
	if got := v.At(0, 0); got != raster.Black {
		t.Errorf("At(0, 0) = %v, want black", got)
	}
}
