// Package report writes a YAML summary of a finished generation run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfworks/camshelf/internal/models"
	"gopkg.in/yaml.v3"
)

// RunConfig is the configuration section of the run report.
type RunConfig struct {
	Count       int    `yaml:"count"`
	Material    string `yaml:"material"`
	Resolution  string `yaml:"resolution"`
	AspectRatio string `yaml:"aspectratio"`
	Timestamp   string `yaml:"timestamp"`
}

// CameraEntry is one camera's outcome in the run report.
type CameraEntry struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Year     int     `yaml:"year"`
	Status   string  `yaml:"status"`
	HasImage bool    `yaml:"hasimage"`
	WidthMM  float64 `yaml:"widthmm"`
	HeightMM float64 `yaml:"heightmm"`
	DepthMM  float64 `yaml:"depthmm"`
}

// RunReport is the complete run summary.
type RunReport struct {
	Config    RunConfig     `yaml:"config"`
	Cameras   []CameraEntry `yaml:"cameras"`
	Completed int           `yaml:"completed"`
	Errored   int           `yaml:"errored"`
}

// Save writes the report into dir with a timestamped filename and returns
// the written path.
func Save(dir string, cfg models.GenerationConfig, cameras []models.Camera) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	rpt := RunReport{
		Config: RunConfig{
			Count:       cfg.Count,
			Material:    string(cfg.Material),
			Resolution:  string(cfg.Resolution),
			AspectRatio: cfg.AspectRatio,
			Timestamp:   timestamp,
		},
		Cameras: make([]CameraEntry, 0, len(cameras)),
	}

	for _, cam := range cameras {
		rpt.Cameras = append(rpt.Cameras, CameraEntry{
			ID:       cam.ID,
			Name:     cam.Name,
			Year:     cam.Year,
			Status:   string(cam.Status),
			HasImage: cam.HasImage(),
			WidthMM:  cam.WidthMM,
			HeightMM: cam.HeightMM,
			DepthMM:  cam.DepthMM,
		})
		switch cam.Status {
		case models.StatusCompleted:
			rpt.Completed++
		case models.StatusError:
			rpt.Errored++
		}
	}

	data, err := yaml.Marshal(&rpt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.yaml", timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
