package raster

import "math"

// RGB is one 8-bit-per-channel pixel.
type RGB struct {
	R, G, B uint8
}

// Black is emitted for rays that miss the capture array.
var Black = RGB{}

// Blend bilinearly mixes four samples taken at the same pixel address in four
// neighboring views. alpha weights the right column, beta the bottom row:
//
//	top = (1-alpha)*topLeft + alpha*topRight
//	bot = (1-alpha)*botLeft + alpha*botRight
//	out = (1-beta)*top + beta*bot
//
// Arithmetic stays in float64 until the final write, which goes through Clamp8.
func Blend(topLeft, topRight, botLeft, botRight RGB, alpha, beta float64) RGB {
	return RGB{
		R: blendChannel(topLeft.R, topRight.R, botLeft.R, botRight.R, alpha, beta),
		G: blendChannel(topLeft.G, topRight.G, botLeft.G, botRight.G, alpha, beta),
		B: blendChannel(topLeft.B, topRight.B, botLeft.B, botRight.B, alpha, beta),
	}
}

func blendChannel(tl, tr, bl, br uint8, alpha, beta float64) uint8 {
	top := (1-alpha)*float64(tl) + alpha*float64(tr)
	bot := (1-alpha)*float64(bl) + alpha*float64(br)
	return Clamp8((1-beta)*top + beta*bot)
}

// Clamp8 converts a channel value to uint8: clamp to [0, 255], then round
// half up. NaN maps to 0.
func Clamp8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Floor(v + 0.5))
}
