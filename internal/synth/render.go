package synth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"lfsynth/internal/capture"
	"lfsynth/internal/geometry"
	"lfsynth/internal/grid"
	"lfsynth/internal/logging"
	"lfsynth/internal/raster"
)

// Stats summarizes one synthesis pass.
type Stats struct {
	Pixels int
	Masked int // rays that missed the array and were written black
}

// Render synthesizes the view described by req from the captures in g.
// Rows are shared among req.Workers goroutines; every output pixel is
// written by exactly one of them. ctx is checked between rows.
func Render(ctx context.Context, g *capture.Grid, req Request) (*raster.FrameBuffer, Stats, error) {
	req.Layout = g.Layout
	if err := req.Validate(); err != nil {
		return nil, Stats{}, err
	}
	res := req.Plane.Resolution
	if g.Width != res || g.Height != res {
		return nil, Stats{}, fmt.Errorf("synth: captures are %dx%d, output is %dx%d",
			g.Width, g.Height, res, res)
	}

	var pixel func(col, row int) (raster.RGB, bool)
	switch req.Policy {
	case PolicyPerRay:
		pixel = perRay(g, req)
	case PolicyFixedOffset:
		pixel = fixedOffset(g, req)
	default:
		return nil, Stats{}, fmt.Errorf("synth: unknown policy %d", req.Policy)
	}

	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}

	fb := raster.NewFrameBuffer(res, res)
	var masked, rowsDone atomic.Int64
	log := logging.Logger()
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Debug("synthesizing", "rows", rowsDone.Load(), "of", res)
			}
		}
	}()

	rowChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rowChan {
				if ctx.Err() != nil {
					continue
				}
				var rowMasked int64
				for col := 0; col < res; col++ {
					c, ok := pixel(col, row)
					if !ok {
						rowMasked++
					}
					fb.Set(col, row, c)
				}
				masked.Add(rowMasked)
				rowsDone.Add(1)
			}
		}()
	}

	for row := 0; row < res; row++ {
		rowChan <- row
	}
	close(rowChan)

	wg.Wait()
	close(done)

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("synth: %w", err)
	}

	stats := Stats{Pixels: res * res, Masked: int(masked.Load())}
	log.Debug("synthesis finished",
		"policy", req.Policy.String(),
		"masked", stats.Masked,
		"elapsed", time.Since(start))
	return fb, stats, nil
}

// perRay projects each pixel's ray onto the array plane. Rays landing
// outside the array are masked to black.
func perRay(g *capture.Grid, req Request) func(col, row int) (raster.RGB, bool) {
	return func(col, row int) (raster.RGB, bool) {
		p := req.Plane.PixelToPlane(col, row)
		hit := geometry.ProjectToArrayPlane(req.Viewpoint, p, req.FocalLength)
		if !g.Layout.Contains(hit) {
			return raster.Black, false
		}
		return sample(g, g.Layout.Locate(hit), col, row), true
	}
}

// fixedOffset blends the four captures around the viewpoint itself at every
// pixel. The viewpoint is validated to be inside the array, so nothing is
// masked.
func fixedOffset(g *capture.Grid, req Request) func(col, row int) (raster.RGB, bool) {
	n := g.Layout.Locate(geometry.Point2D{X: req.Viewpoint.X, Y: req.Viewpoint.Y})
	return func(col, row int) (raster.RGB, bool) {
		return sample(g, n, col, row), true
	}
}

// sample reads the same (col, row) from the four neighboring captures. The
// captures are assumed rectified, so no per-view reprojection happens.
func sample(g *capture.Grid, n grid.Neighbors, col, row int) raster.RGB {
	return raster.Blend(
		g.View(n.TopLeft).At(col, row),
		g.View(n.TopRight).At(col, row),
		g.View(n.BotLeft).At(col, row),
		g.View(n.BotRight).At(col, row),
		n.Alpha, n.Beta,
	)
}
