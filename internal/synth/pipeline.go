// Package synth renders a novel view from a light field. A Pipeline runs the
// whole batch (validate, load captures, synthesize, save); Render performs
// the synthesis pass on an already loaded capture grid.
package synth

import (
	"context"
	"fmt"

	"lfsynth/internal/capture"
	"lfsynth/internal/imageio"
	"lfsynth/internal/logging"
)

// Stage is a Pipeline's position in Init -> Loading -> Synthesizing -> Saved.
type Stage int

const (
	StageInit Stage = iota
	StageLoading
	StageSynthesizing
	StageSaved
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageLoading:
		return "loading"
	case StageSynthesizing:
		return "synthesizing"
	case StageSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Pipeline renders one view end to end. It is single use.
type Pipeline struct {
	Source  capture.Source
	Request Request
	Output  string

	stage Stage
	grid  *capture.Grid
}

// Stage returns the last stage the pipeline entered.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Grid returns the captures loaded by Run, or nil before loading finished.
func (p *Pipeline) Grid() *capture.Grid {
	return p.grid
}

func (p *Pipeline) enter(s Stage) {
	p.stage = s
	logging.Logger().Info("stage", "name", s.String())
}

// Run executes every stage in order. Any error stops the run where it
// happened and nothing is written. Validation of the viewpoint, focal length
// and output format happens before a single capture is loaded.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	if p.stage != StageInit {
		return Stats{}, fmt.Errorf("synth: pipeline already ran (stage %s)", p.stage)
	}
	logging.Logger().Info("stage", "name", StageInit.String())

	if err := p.Request.Validate(); err != nil {
		return Stats{}, err
	}
	if _, err := imageio.EncoderFor(p.Output); err != nil {
		return Stats{}, err
	}

	p.enter(StageLoading)
	res := p.Request.Plane.Resolution
	g, err := capture.Load(p.Source, p.Request.Layout, res, res)
	if err != nil {
		return Stats{}, err
	}
	p.grid = g

	p.enter(StageSynthesizing)
	fb, stats, err := Render(ctx, g, p.Request)
	if err != nil {
		return Stats{}, err
	}

	if err := imageio.Save(p.Output, fb.ToImage()); err != nil {
		return Stats{}, err
	}
	p.enter(StageSaved)
	logging.Logger().Info("view saved", "path", p.Output, "masked", stats.Masked)
	return stats, nil
}
