// Command lfsynth renders a novel view from a 9x9 light field.
//
//	lfsynth [flags] <LF_dir> <X> <Y> <Z> <focal_length>
//
// With -config, the positional viewpoint may be omitted: a "viewpoint" entry
// renders one view, and a "views" list renders every listed view against one
// load of the captures.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"lfsynth/internal/batch"
	"lfsynth/internal/capture"
	"lfsynth/internal/config"
	"lfsynth/internal/footprint"
	"lfsynth/internal/imageio"
	"lfsynth/internal/logging"
	"lfsynth/internal/synth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lfsynth", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to config.json file")
	output := fs.String("out", "", "Output image path; format from extension (default: newView.bmp)")
	policy := fs.String("policy", "", "Sampling policy: per-ray or fixed-offset (default: per-ray)")
	workers := fs.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	footprintOut := fs.String("footprint", "", "Also write a PNG plot of the ray footprint on the array plane")
	verbose := fs.Bool("v", false, "Debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lfsynth [flags] <LF_dir> <X> <Y> <Z> <focal_length>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return err
		}
	}

	flags := config.Flags{
		Output:  *output,
		Policy:  *policy,
		Workers: *workers,
	}
	switch fs.NArg() {
	case 0:
		if *configFile == "" {
			fs.Usage()
			return errors.New("missing arguments")
		}
	case 1:
		flags.CaptureDir = fs.Arg(0)
	case 5:
		vals, err := parseFloats(fs.Args()[1:])
		if err != nil {
			return err
		}
		flags.CaptureDir = fs.Arg(0)
		flags.Viewpoint = &config.Viewpoint{X: vals[0], Y: vals[1], Z: vals[2]}
		flags.FocalLength = vals[3]
		if vals[3] == 0 {
			return fmt.Errorf("%w: focal length must be nonzero", synth.ErrDegenerateFocalLength)
		}
	default:
		fs.Usage()
		return fmt.Errorf("expected 5 positional arguments, got %d", fs.NArg())
	}

	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flags.Viewpoint == nil && len(cfg.Views) > 0 {
		return runBatch(ctx, cfg)
	}
	return runSingle(ctx, cfg, *footprintOut)
}

func runSingle(ctx context.Context, cfg config.Config, footprintOut string) error {
	req, err := cfg.Request(*cfg.Viewpoint)
	if err != nil {
		return err
	}
	// Reject bad viewpoints before touching the capture directory.
	if err := req.Validate(); err != nil {
		return err
	}
	src, err := capture.NewDirSource(cfg.CaptureDir, cfg.CapturePattern, cfg.CaptureExt)
	if err != nil {
		return err
	}

	if footprintOut != "" {
		plot := footprint.Plot{
			Layout:      req.Layout,
			Plane:       req.Plane,
			Viewpoint:   req.Viewpoint,
			FocalLength: req.FocalLength,
			Size:        512,
		}
		img, err := plot.Draw()
		if err != nil {
			return err
		}
		if err := imageio.Save(footprintOut, img); err != nil {
			return err
		}
		fmt.Printf("Footprint: %s (%.1f%% of rays inside the array)\n", footprintOut, plot.Coverage()*100)
	}

	v := req.Viewpoint
	fmt.Printf("Synthesizing image from viewpoint: (%g,%g,%g) with focal length: %g\n",
		v.X, v.Y, v.Z, req.FocalLength)

	start := time.Now()
	p := &synth.Pipeline{Source: src, Request: req, Output: cfg.Output}
	stats, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Result saved to %s in %.1fs (%d of %d pixels masked)\n",
		cfg.Output, time.Since(start).Seconds(), stats.Masked, stats.Pixels)
	return nil
}

func runBatch(ctx context.Context, cfg config.Config) error {
	ext := filepath.Ext(cfg.Output)
	if _, err := imageio.EncoderFor(cfg.Output); err != nil {
		return err
	}

	// Every view is checked before the captures are loaded.
	jobs := make([]batch.Job, 0, len(cfg.Views))
	for _, v := range cfg.Views {
		req, err := cfg.Request(v)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("view %q: %w", v.Name, err)
		}
		jobs = append(jobs, batch.Job{Name: v.Name, Request: req})
	}

	src, err := capture.NewDirSource(cfg.CaptureDir, cfg.CapturePattern, cfg.CaptureExt)
	if err != nil {
		return err
	}

	fmt.Printf("Views: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Println("------------------------------------------------------------")
	start := time.Now()

	g, err := capture.Load(src, cfg.Layout(), cfg.Resolution, cfg.Resolution)
	if err != nil {
		return err
	}

	results := batch.Run(ctx, batch.Config{
		Grid:      g,
		OutputDir: filepath.Dir(cfg.Output),
		Ext:       ext,
		Workers:   cfg.Workers,
	}, jobs)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	if err := batch.WriteManifest(cfg.Manifest, jobs, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", cfg.Manifest)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d views failed", failed, len(results))
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q is not a number", a)
		}
		vals[i] = v
	}
	return vals, nil
}
