// Command lfinspect prints how the light-field sampler resolves a point on
// the camera-array plane, or a single output pixel for a given viewpoint.
//
//	lfinspect -x 15 -y -52.5
//	lfinspect -vx 0 -vy 0 -vz 1000 -f 100 -col 0 -row 0
package main

import (
	"flag"
	"fmt"
	"os"

	"lfsynth/internal/capture"
	"lfsynth/internal/footprint"
	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
	"lfsynth/internal/imageio"
	"lfsynth/internal/synth"
)

func main() {
	x := flag.Float64("x", 0, "Array-plane X to resolve")
	y := flag.Float64("y", 0, "Array-plane Y to resolve")
	vx := flag.Float64("vx", 0, "Viewpoint X (pixel mode)")
	vy := flag.Float64("vy", 0, "Viewpoint Y (pixel mode)")
	vz := flag.Float64("vz", 0, "Viewpoint Z (pixel mode)")
	focal := flag.Float64("f", 100, "Focal length (pixel mode)")
	col := flag.Int("col", -1, "Output pixel column; enables pixel mode")
	row := flag.Int("row", -1, "Output pixel row; enables pixel mode")
	pattern := flag.String("pattern", capture.DefaultPattern, "Capture file name pattern")
	plotOut := flag.String("plot", "", "Write a footprint plot for the viewpoint to this path")
	flag.Parse()

	layout := grid.DefaultLayout
	plane := geometry.DefaultImagePlane
	point := geometry.Point2D{X: *x, Y: *y}

	if *col >= 0 || *row >= 0 || *plotOut != "" {
		req := synth.NewRequest(geometry.Point3D{X: *vx, Y: *vy, Z: *vz}, *focal)
		if err := req.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if *plotOut != "" {
			plot := footprint.Plot{
				Layout:      layout,
				Plane:       plane,
				Viewpoint:   req.Viewpoint,
				FocalLength: req.FocalLength,
				Size:        512,
			}
			img, err := plot.Draw()
			if err == nil {
				err = imageio.Save(*plotOut, img)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Plot: %s, coverage %.1f%%\n", *plotOut, plot.Coverage()*100)
		}

		if *col < 0 || *row < 0 {
			return
		}
		if *col >= plane.Resolution || *row >= plane.Resolution {
			fmt.Fprintf(os.Stderr, "Error: pixel (%d, %d) outside %dx%d\n", *col, *row, plane.Resolution, plane.Resolution)
			os.Exit(1)
		}
		ip := plane.PixelToPlane(*col, *row)
		point = geometry.ProjectToArrayPlane(req.Viewpoint, ip, req.FocalLength)
		fmt.Printf("Pixel (%d, %d)\n", *col, *row)
		fmt.Printf("  Image plane: (%.4f, %.4f)\n", ip.X, ip.Y)
	}

	fmt.Printf("  Array plane: (%.4f, %.4f)\n", point.X, point.Y)
	if !layout.Contains(point) {
		fmt.Println("  Outside the array: masked to black")
		return
	}

	n := layout.Locate(point)
	fmt.Printf("  Grid coord:  (%.4f, %.4f)  alpha=%.4f beta=%.4f\n", n.S, n.T, n.Alpha, n.Beta)
	for _, c := range []struct {
		label string
		index int
	}{
		{"top-left", n.TopLeft},
		{"top-right", n.TopRight},
		{"bot-left", n.BotLeft},
		{"bot-right", n.BotRight},
	} {
		fmt.Printf("  %-9s  index %2d  %s\n", c.label, c.index, fmt.Sprintf(*pattern, c.index+1))
	}
}
