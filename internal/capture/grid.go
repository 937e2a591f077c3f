package capture

import (
	"errors"
	"fmt"

	"lfsynth/internal/grid"
	"lfsynth/internal/logging"
)

// ErrResourceLoad marks a capture that is missing, undecodable, or of the
// wrong resolution. It is always fatal for the run.
var ErrResourceLoad = errors.New("capture load failed")

// Grid is the full set of captures for a rig, stored row-major from the
// top-left capture. It is never mutated after Load.
type Grid struct {
	Layout grid.Layout
	Width  int
	Height int
	Views  []*View
}

// Load reads layout.Len() captures from src in order 1..N. Every capture
// must be width x height. The first failure aborts the load.
func Load(src Source, layout grid.Layout, width, height int) (*Grid, error) {
	n := layout.Len()
	g := &Grid{
		Layout: layout,
		Width:  width,
		Height: height,
		Views:  make([]*View, 0, n),
	}

	for i := 1; i <= n; i++ {
		v, err := src.Load(i)
		if err != nil {
			return nil, fmt.Errorf("capture: %w: view %d: %v", ErrResourceLoad, i, err)
		}
		if v.Width != width || v.Height != height {
			return nil, fmt.Errorf("capture: %w: view %d is %dx%d, want %dx%d",
				ErrResourceLoad, i, v.Width, v.Height, width, height)
		}
		g.Views = append(g.Views, v)
	}

	logging.Logger().Debug("captures loaded", "count", n, "width", width, "height", height)
	return g, nil
}

// View returns the capture at linear grid index i (0-based, as produced by
// grid.Layout.Index).
func (g *Grid) View(i int) *View {
	return g.Views[i]
}
