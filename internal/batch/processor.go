// Package batch renders many virtual viewpoints against one loaded capture grid.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"lfsynth/internal/capture"
	"lfsynth/internal/imageio"
	"lfsynth/internal/logging"
	"lfsynth/internal/synth"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Grid      *capture.Grid
	OutputDir string
	Ext       string // output extension, e.g. ".bmp"
	Workers   int
}

// Job is one named view to render.
type Job struct {
	Name    string
	Request synth.Request
}

// Result holds the outcome of rendering one view.
type Result struct {
	Name    string
	Path    string
	Success bool
	Masked  int
	Error   string
}

// Run renders all jobs using a worker pool. Each view is rendered on a single
// goroutine; parallelism comes from running views side by side. A failing
// view only fails its own Result.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

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
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					logging.Logger().Info("batch progress",
						"done", p, "total", total, "views_per_sec", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(ctx context.Context, cfg Config, job Job) Result {
	res := Result{Name: job.Name}

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	req := job.Request
	req.Workers = 1

	fb, stats, err := synth.Render(ctx, cfg.Grid, req)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Path = filepath.Join(cfg.OutputDir, job.Name+cfg.Ext)
	if err := imageio.Save(res.Path, fb.ToImage()); err != nil {
		res.Error = fmt.Sprintf("save: %v", err)
		return res
	}

	res.Success = true
	res.Masked = stats.Masked
	return res
}
