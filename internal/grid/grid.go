// Package grid resolves points on the camera-array plane to the four
// surrounding capture positions of a regular Rows x Cols capture grid.
//
// Grid coordinates (s, t) have their origin at the bottom-left capture,
// while captures are stored row-major from the top-left. Index performs
// that inversion.
package grid

import (
	"math"

	"lfsynth/internal/geometry"
)

// Layout describes a planar capture rig: Rows x Cols positions spaced
// Baseline physical units apart and centered on the array-plane origin.
type Layout struct {
	Rows     int
	Cols     int
	Baseline float64
}

// DefaultLayout is the 9x9 rig with a 30 unit baseline, spanning [-120, 120].
var DefaultLayout = Layout{Rows: 9, Cols: 9, Baseline: 30}

// Neighbors is the result of Locate: four linear capture indices and the
// fractional position between them along each axis.
type Neighbors struct {
	Alpha float64 // horizontal weight toward the right column
	Beta  float64 // vertical weight toward the bottom row
	S, T  float64 // continuous grid coordinates

	TopLeft  int
	TopRight int
	BotLeft  int
	BotRight int
}

// Len returns the number of captures in the rig.
func (l Layout) Len() int {
	return l.Rows * l.Cols
}

// HalfSpanX is the distance from the array center to the outermost column.
func (l Layout) HalfSpanX() float64 {
	return float64(l.Cols-1) * l.Baseline / 2
}

// HalfSpanY is the distance from the array center to the outermost row.
func (l Layout) HalfSpanY() float64 {
	return float64(l.Rows-1) * l.Baseline / 2
}

// Contains reports whether p lies inside the physical extent of the array,
// boundary included. NaN coordinates are outside.
func (l Layout) Contains(p geometry.Point2D) bool {
	hx, hy := l.HalfSpanX(), l.HalfSpanY()
	return p.X >= -hx && p.X <= hx && p.Y >= -hy && p.Y <= hy
}

// Index converts grid coordinate (s, t) to a linear capture index.
// For the 9x9 rig this is 72 - 9*t + s.
func (l Layout) Index(s, t int) int {
	return (l.Rows-1)*l.Cols - l.Cols*t + s
}

// Position returns the array-plane location of capture index i, the
// inverse of Index followed by denormalization.
func (l Layout) Position(i int) geometry.Point2D {
	s := i % l.Cols
	t := (l.Rows - 1) - i/l.Cols
	return geometry.Point2D{
		X: float64(s)*l.Baseline - l.HalfSpanX(),
		Y: float64(t)*l.Baseline - l.HalfSpanY(),
	}
}

// Locate finds the captures bracketing p. Indices are not range-checked:
// callers must test Contains first, since points outside the array resolve
// to indices outside [0, Len()).
//
// When p falls exactly on a grid line the floor and ceiling coincide and the
// matching weight is 0, so corners may repeat pairwise.
func (l Layout) Locate(p geometry.Point2D) Neighbors {
	x := (p.X + l.HalfSpanX()) / l.Baseline
	y := (p.Y + l.HalfSpanY()) / l.Baseline

	left, right := int(math.Floor(x)), int(math.Ceil(x))
	bottom, top := int(math.Floor(y)), int(math.Ceil(y))

	_, alpha := math.Modf(x)
	_, beta := math.Modf(y)

	return Neighbors{
		Alpha:    alpha,
		Beta:     beta,
		S:        x,
		T:        y,
		TopLeft:  l.Index(left, top),
		TopRight: l.Index(right, top),
		BotLeft:  l.Index(left, bottom),
		BotRight: l.Index(right, bottom),
	}
}

// Locate is Layout.Locate on the default 9x9 rig.
func Locate(p geometry.Point2D) Neighbors {
	return DefaultLayout.Locate(p)
}
