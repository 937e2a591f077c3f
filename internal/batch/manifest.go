package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry describes one rendered view in the output manifest.
type ManifestEntry struct {
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	FocalLength float64 `json:"focal_length"`
	Policy      string  `json:"policy"`
	Image       string  `json:"image"`
	Masked      int     `json:"masked_pixels"`
}

// WriteManifest writes the successfully rendered views to path as JSON.
// jobs and results must be parallel slices as returned by Run.
func WriteManifest(path string, jobs []Job, results []Result) error {
	if len(jobs) != len(results) {
		return fmt.Errorf("batch: %d jobs but %d results", len(jobs), len(results))
	}

	entries := make([]ManifestEntry, 0, len(jobs))
	for i, job := range jobs {
		r := results[i]
		if !r.Success {
			continue
		}
		v := job.Request.Viewpoint
		entries = append(entries, ManifestEntry{
			Name:        job.Name,
			X:           v.X,
			Y:           v.Y,
			Z:           v.Z,
			FocalLength: job.Request.FocalLength,
			Policy:      job.Request.Policy.String(),
			Image:       filepath.Base(r.Path),
			Masked:      r.Masked,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
