// Package footprint draws where a virtual camera's rays land on the capture
// array: the rig's capture positions, the array extent, and the rectangle
// swept by the projected image plane. Rays outside the extent are the ones
// the per-ray policy masks to black.
package footprint

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
)

// Plot describes one diagnostic image.
type Plot struct {
	Layout      grid.Layout
	Plane       geometry.ImagePlane
	Viewpoint   geometry.Point3D
	FocalLength float64
	Size        int // output is Size x Size pixels
}

// Bounds returns the array-plane rectangle hit by rays through the image
// plane corners.
func (p Plot) Bounds() (lo, hi geometry.Point2D) {
	half := p.Plane.Extent / 2
	a := geometry.ProjectToArrayPlane(p.Viewpoint, geometry.Point2D{X: -half, Y: -half}, p.FocalLength)
	b := geometry.ProjectToArrayPlane(p.Viewpoint, geometry.Point2D{X: half, Y: half}, p.FocalLength)
	lo = geometry.Point2D{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	hi = geometry.Point2D{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
	return lo, hi
}

// Coverage returns the fraction of the footprint rectangle that lies inside
// the array extent, in [0, 1]. A degenerate footprint (z = 0) counts as
// fully covered when the viewpoint is inside the array.
func (p Plot) Coverage() float64 {
	lo, hi := p.Bounds()
	hx, hy := p.Layout.HalfSpanX(), p.Layout.HalfSpanY()
	area := (hi.X - lo.X) * (hi.Y - lo.Y)
	if area <= 0 {
		if p.Layout.Contains(geometry.Point2D{X: p.Viewpoint.X, Y: p.Viewpoint.Y}) {
			return 1
		}
		return 0
	}
	w := math.Max(0, math.Min(hi.X, hx)-math.Max(lo.X, -hx))
	h := math.Max(0, math.Min(hi.Y, hy)-math.Max(lo.Y, -hy))
	return w * h / area
}

// Draw renders the plot. Array-plane y points up in the image.
func (p Plot) Draw() (image.Image, error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("footprint: invalid size %d", p.Size)
	}
	if p.FocalLength == 0 {
		return nil, fmt.Errorf("footprint: focal length is zero")
	}

	lo, hi := p.Bounds()
	hx, hy := p.Layout.HalfSpanX(), p.Layout.HalfSpanY()
	span := math.Max(math.Max(hx, hy), math.Max(
		math.Max(math.Abs(lo.X), math.Abs(hi.X)),
		math.Max(math.Abs(lo.Y), math.Abs(hi.Y)),
	))
	span = span*1.1 + p.Layout.Baseline/2

	size := float64(p.Size)
	scale := size / (2 * span)
	toCanvas := func(pt geometry.Point2D) (float64, float64) {
		return (pt.X + span) * scale, (span - pt.Y) * scale
	}

	dc := gg.NewContext(p.Size, p.Size)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	// Array extent
	x0, y0 := toCanvas(geometry.Point2D{X: -hx, Y: hy})
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawRectangle(x0, y0, 2*hx*scale, 2*hy*scale)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("footprint: fill extent: %w", err)
	}

	// Capture positions
	r := math.Max(1.5, p.Layout.Baseline*scale*0.12)
	dc.SetRGB(0.2, 0.2, 0.2)
	for i := 0; i < p.Layout.Len(); i++ {
		cx, cy := toCanvas(p.Layout.Position(i))
		dc.DrawCircle(cx, cy, r)
	}
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("footprint: fill captures: %w", err)
	}

	// Ray footprint
	fx, fy := toCanvas(geometry.Point2D{X: lo.X, Y: hi.Y})
	dc.SetRGBA(0.1, 0.35, 0.9, 0.8)
	dc.SetLineWidth(math.Max(1, size/256))
	dc.DrawRectangle(fx, fy, (hi.X-lo.X)*scale, (hi.Y-lo.Y)*scale)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("footprint: stroke footprint: %w", err)
	}

	// Viewpoint
	vx, vy := toCanvas(geometry.Point2D{X: p.Viewpoint.X, Y: p.Viewpoint.Y})
	dc.SetRGB(0.85, 0.1, 0.1)
	dc.DrawCircle(vx, vy, r*1.5)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("footprint: fill viewpoint: %w", err)
	}

	return dc.Image(), nil
}
