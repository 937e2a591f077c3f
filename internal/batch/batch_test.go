package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lfsynth/internal/capture"
	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
	"lfsynth/internal/raster"
	"lfsynth/internal/synth"
)

const res = 6

func testGrid() *capture.Grid {
	g := &capture.Grid{Layout: grid.DefaultLayout, Width: res, Height: res}
	v := capture.NewUniformView(res, res, raster.RGB{R: 9, G: 8, B: 7})
	for i := 0; i < grid.DefaultLayout.Len(); i++ {
		g.Views = append(g.Views, v)
	}
	return g
}

func job(name string, x, y, z float64) Job {
	req := synth.NewRequest(geometry.Point3D{X: x, Y: y, Z: z}, 100)
	req.Plane = geometry.ImagePlane{Resolution: res, Extent: 34}
	return Job{Name: name, Request: req}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		job("centre", 0, 0, 100),
		job("outside", 130, 0, 100),
		job("far", 0, 0, 2000),
		job("left", -90, 30, 50),
	}
	results := Run(context.Background(), Config{Grid: testGrid(), OutputDir: dir, Ext: ".png", Workers: 3}, jobs)

	if len(results) != len(jobs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.Name != jobs[i].Name {
			t.Errorf("results[%d].Name = %q, want %q", i, r.Name, jobs[i].Name)
		}
	}
	if results[1].Success || !strings.Contains(results[1].Error, "invalid viewpoint") {
		t.Errorf("outside view result = %+v, want invalid viewpoint failure", results[1])
	}
	for _, i := range []int{0, 2, 3} {
		r := results[i]
		if !r.Success {
			t.Errorf("%s failed: %s", r.Name, r.Error)
			continue
		}
		if _, err := os.Stat(r.Path); err != nil {
			t.Errorf("%s output missing: %v", r.Name, err)
		}
	}
	if results[0].Masked != 0 {
		t.Errorf("centre Masked = %d, want 0", results[0].Masked)
	}
	if results[2].Masked == 0 {
		t.Errorf("far Masked = 0, want corner rays masked")
	}

	manifest := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(manifest, jobs, results); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("manifest has %d entries, want 3", len(entries))
	}
	if entries[0].Name != "centre" || entries[0].Image != "centre.png" || entries[0].Policy != "per-ray" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{Grid: testGrid(), OutputDir: t.TempDir(), Ext: ".png"}, []Job{job("a", 0, 0, 10)})
	if results[0].Success {
		t.Error("cancelled batch reported success")
	}
}

func TestWriteManifest_LengthMismatch(t *testing.T) {
	err := WriteManifest(filepath.Join(t.TempDir(), "m.json"), []Job{job("a", 0, 0, 1)}, nil)
	if err == nil {
		t.Error("WriteManifest() error = nil, want length mismatch")
	}
}
