package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
)

var (
	// ErrInvalidViewpoint is returned when the virtual camera's X or Y lies
	// outside the capture array, or a coordinate is not finite.
	ErrInvalidViewpoint = errors.New("invalid viewpoint")

	// ErrDegenerateFocalLength is an ErrInvalidViewpoint for a zero or
	// non-finite focal length.
	ErrDegenerateFocalLength = fmt.Errorf("%w: degenerate focal length", ErrInvalidViewpoint)
)

// Policy selects how output pixels pick their source captures.
type Policy int

const (
	// PolicyPerRay traces every output pixel to the array plane, blends the
	// four captures around the hit and masks rays that miss the array.
	PolicyPerRay Policy = iota

	// PolicyFixedOffset resolves the four captures around the viewpoint once
	// and blends them with the same weights at every pixel.
	PolicyFixedOffset
)

func (p Policy) String() string {
	switch p {
	case PolicyPerRay:
		return "per-ray"
	case PolicyFixedOffset:
		return "fixed-offset"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-ray":
		return PolicyPerRay, nil
	case "fixed-offset":
		return PolicyFixedOffset, nil
	default:
		return 0, fmt.Errorf("synth: unknown policy %q", s)
	}
}

// Request describes one virtual view.
type Request struct {
	Viewpoint   geometry.Point3D
	FocalLength float64
	Layout      grid.Layout
	Plane       geometry.ImagePlane
	Policy      Policy
	Workers     int
}

// NewRequest returns a per-ray request on the default 9x9 rig and 512x512 sensor.
func NewRequest(viewpoint geometry.Point3D, focalLength float64) Request {
	return Request{
		Viewpoint:   viewpoint,
		FocalLength: focalLength,
		Layout:      grid.DefaultLayout,
		Plane:       geometry.DefaultImagePlane,
		Policy:      PolicyPerRay,
		Workers:     1,
	}
}

// Validate checks the viewpoint against the array extent and rejects focal
// lengths that would divide by zero in the projection.
func (r Request) Validate() error {
	if r.Layout.Rows < 1 || r.Layout.Cols < 1 || !(r.Layout.Baseline > 0) {
		return fmt.Errorf("synth: invalid grid layout %+v", r.Layout)
	}
	if r.Plane.Resolution < 2 || !(r.Plane.Extent > 0) {
		return fmt.Errorf("synth: invalid image plane %+v", r.Plane)
	}

	v := r.Viewpoint
	if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
		return fmt.Errorf("synth: %w: viewpoint %v is not finite", ErrInvalidViewpoint, v)
	}
	hx, hy := r.Layout.HalfSpanX(), r.Layout.HalfSpanY()
	if v.X < -hx || v.X > hx || v.Y < -hy || v.Y > hy {
		return fmt.Errorf("synth: %w: X and Y must lie in [%g, %g] x [%g, %g], got (%g, %g)",
			ErrInvalidViewpoint, -hx, hx, -hy, hy, v.X, v.Y)
	}
	if r.FocalLength == 0 || !finite(r.FocalLength) || !finite(v.Z/r.FocalLength) {
		return fmt.Errorf("synth: %w: %g", ErrDegenerateFocalLength, r.FocalLength)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
