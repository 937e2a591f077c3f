// Package geometry maps output pixels onto the virtual image plane and
// projects viewing rays onto the camera-array plane (z = 0).
package geometry

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Point2D is a location on the virtual image plane or the camera-array plane.
type Point2D = r2.Point

// Point3D is the virtual camera position; Z is its distance from the array plane.
type Point3D = r3.Vector

// ImagePlane describes the virtual sensor: a square of Extent physical units
// sampled by Resolution pixels along each axis, centered on the optical axis.
type ImagePlane struct {
	Resolution int
	Extent     float64
}

// DefaultImagePlane is a 512x512 sensor spanning [-17, 17] in both axes.
var DefaultImagePlane = ImagePlane{Resolution: 512, Extent: 34}

// PixelToPlane maps pixel (col, row) linearly onto the image plane so that
// pixel 0 lands on -Extent/2 and pixel Resolution-1 lands on +Extent/2.
func (p ImagePlane) PixelToPlane(col, row int) Point2D {
	step := p.Extent / float64(p.Resolution-1)
	half := p.Extent / 2
	return Point2D{
		X: float64(col)*step - half,
		Y: float64(row)*step - half,
	}
}

// PixelToPlane is ImagePlane.PixelToPlane on the default 512x512 sensor.
func PixelToPlane(col, row int) Point2D {
	return DefaultImagePlane.PixelToPlane(col, row)
}

// ProjectToArrayPlane intersects the ray from imagePlanePoint through the
// pinhole at viewpoint with the z = 0 array plane. The optical axis is assumed
// parallel to z, so the intersection follows from similar triangles with
// t = viewpoint.Z / focalLength. focalLength must be nonzero.
func ProjectToArrayPlane(viewpoint Point3D, imagePlanePoint Point2D, focalLength float64) Point2D {
	t := viewpoint.Z / focalLength
	return Point2D{X: viewpoint.X, Y: viewpoint.Y}.Add(imagePlanePoint.Mul(t))
}
