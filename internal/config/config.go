package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
	"lfsynth/internal/synth"
)

// Viewpoint is a virtual camera position in array-plane units.
type Viewpoint struct {
	Name string  `json:"name,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`

	// FocalLength overrides Config.FocalLength for this view when non-zero.
	FocalLength float64 `json:"focal_length,omitempty"`
}

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	CaptureDir     string `json:"capture_dir"`
	CapturePattern string `json:"capture_pattern"`
	CaptureExt     string `json:"capture_ext"`
	Output         string `json:"output"`
	Manifest       string `json:"manifest"`

	// Virtual camera
	Viewpoint   *Viewpoint  `json:"viewpoint,omitempty"`
	FocalLength float64     `json:"focal_length"`
	Views       []Viewpoint `json:"views"`

	// Rig and sensor
	GridRows    int     `json:"grid_rows"`
	GridCols    int     `json:"grid_cols"`
	Baseline    float64 `json:"baseline"`
	Resolution  int     `json:"resolution"`
	ImageExtent float64 `json:"image_extent"`

	// Render settings
	Policy  string `json:"policy"`
	Workers int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI values that override config file settings.
type Flags struct {
	CaptureDir  string
	Viewpoint   *Viewpoint // set when the positional X Y Z were given
	FocalLength float64
	Output      string
	Policy      string
	Workers     int
}

// Resolve applies CLI overrides and fills in defaults.
// CLI values take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.CaptureDir != "" {
		c.CaptureDir = flags.CaptureDir
	}
	if flags.Viewpoint != nil {
		vp := *flags.Viewpoint
		c.Viewpoint = &vp
	}
	if flags.FocalLength != 0 {
		c.FocalLength = flags.FocalLength
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Policy != "" {
		c.Policy = flags.Policy
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.CapturePattern == "" {
		c.CapturePattern = "cam%03d"
	}
	if c.Output == "" {
		c.Output = "newView.bmp"
	}
	if c.Manifest == "" {
		c.Manifest = filepath.Join(filepath.Dir(c.Output), "manifest.json")
	}
	if c.FocalLength == 0 {
		c.FocalLength = 100
	}
	if c.GridRows <= 0 {
		c.GridRows = grid.DefaultLayout.Rows
	}
	if c.GridCols <= 0 {
		c.GridCols = grid.DefaultLayout.Cols
	}
	if c.Baseline <= 0 {
		c.Baseline = grid.DefaultLayout.Baseline
	}
	if c.Resolution <= 0 {
		c.Resolution = geometry.DefaultImagePlane.Resolution
	}
	if c.ImageExtent <= 0 {
		c.ImageExtent = geometry.DefaultImagePlane.Extent
	}
	if c.Policy == "" {
		c.Policy = synth.PolicyPerRay.String()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports settings that cannot be rendered. Viewpoint range checks
// belong to synth.Request.Validate.
func (c Config) Validate() error {
	if c.CaptureDir == "" {
		return fmt.Errorf("config: capture_dir is required")
	}
	if _, err := synth.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Resolution < 2 {
		return fmt.Errorf("config: resolution must be at least 2, got %d", c.Resolution)
	}
	if c.Viewpoint == nil && len(c.Views) == 0 {
		return fmt.Errorf("config: a viewpoint or a views list is required")
	}
	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.Views {
		if v.Name == "" {
			return fmt.Errorf("config: views[%d] has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("config: duplicate view name %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Layout returns the capture rig described by the config.
func (c Config) Layout() grid.Layout {
	return grid.Layout{Rows: c.GridRows, Cols: c.GridCols, Baseline: c.Baseline}
}

// Plane returns the virtual sensor described by the config.
func (c Config) Plane() geometry.ImagePlane {
	return geometry.ImagePlane{Resolution: c.Resolution, Extent: c.ImageExtent}
}

// Request builds the synthesis request for v. A zero v.FocalLength falls
// back to the config's focal length.
func (c Config) Request(v Viewpoint) (synth.Request, error) {
	policy, err := synth.ParsePolicy(c.Policy)
	if err != nil {
		return synth.Request{}, fmt.Errorf("config: %w", err)
	}
	focal := c.FocalLength
	if v.FocalLength != 0 {
		focal = v.FocalLength
	}
	return synth.Request{
		Viewpoint:   geometry.Point3D{X: v.X, Y: v.Y, Z: v.Z},
		FocalLength: focal,
		Layout:      c.Layout(),
		Plane:       c.Plane(),
		Policy:      policy,
		Workers:     c.Workers,
	}, nil
}
