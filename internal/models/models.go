package models

import (
	"fmt"
	"strings"

	"github.com/shelfworks/camshelf/internal/material"
)

// Status tracks one camera through a generation run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Settled reports whether the camera has finished processing, successfully
// or not.
func (s Status) Settled() bool {
	return s == StatusCompleted || s == StatusError
}

// Camera represents one archived item on the shelf.
type Camera struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	WidthMM     float64 `json:"width_mm"`
	HeightMM    float64 `json:"height_mm"`
	DepthMM     float64 `json:"depth_mm"`
	Image       []byte  `json:"-"`
	Status      Status  `json:"status"`
}

// HasImage reports whether a synthesized portrait is present.
func (c Camera) HasImage() bool {
	return len(c.Image) > 0
}

// CameraDraft is the raw entity shape returned by the list service, before
// an id and status are assigned.
type CameraDraft struct {
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	WidthMM     float64 `json:"width_mm"`
	HeightMM    float64 `json:"height_mm"`
	DepthMM     float64 `json:"depth_mm"`
}

// Validate checks that a draft carries every required field. Dimensions must
// be positive reals.
func (d CameraDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if d.Year <= 0 {
		return fmt.Errorf("missing year for %q", d.Name)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("missing description for %q", d.Name)
	}
	if d.WidthMM <= 0 || d.HeightMM <= 0 || d.DepthMM <= 0 {
		return fmt.Errorf("non-positive dimensions for %q: %gx%gx%g", d.Name, d.WidthMM, d.HeightMM, d.DepthMM)
	}
	return nil
}

// Resolution selects the pixel dimensions of the composite export.
type Resolution string

const (
	Resolution1080p Resolution = "1080p"
	Resolution1440p Resolution = "1440p"
	Resolution4K    Resolution = "4k"
)

// Dimensions maps a resolution to explicit pixel dimensions.
func (r Resolution) Dimensions() (width, height int) {
	switch r {
	case Resolution1440p:
		return 2560, 1440
	case Resolution4K:
		return 3840, 2160
	default:
		return 1920, 1080
	}
}

// Valid reports whether the resolution is a known preset.
func (r Resolution) Valid() bool {
	switch r {
	case Resolution1080p, Resolution1440p, Resolution4K:
		return true
	}
	return false
}

// Resolutions lists the known presets, for CLI help and validation.
func Resolutions() []Resolution {
	return []Resolution{Resolution1080p, Resolution1440p, Resolution4K}
}

const (
	// MinCount and MaxCount bound the shelf size a run may request.
	MinCount = 2
	MaxCount = 12
)

// GenerationConfig is the immutable configuration for one generation run.
// AspectRatio is forwarded to the image service but unused by layout math.
type GenerationConfig struct {
	Count       int         `json:"count" yaml:"count"`
	Material    material.ID `json:"material" yaml:"material"`
	Resolution  Resolution  `json:"resolution" yaml:"resolution"`
	AspectRatio string      `json:"aspect_ratio" yaml:"aspect_ratio"`
}

// Validate checks the config against the allowed ranges and enums.
func (c GenerationConfig) Validate() error {
	if c.Count < MinCount || c.Count > MaxCount {
		return fmt.Errorf("count %d out of range [%d, %d]", c.Count, MinCount, MaxCount)
	}
	if _, ok := material.Lookup(c.Material); !ok {
		return fmt.Errorf("unknown material %q", c.Material)
	}
	if !c.Resolution.Valid() {
		return fmt.Errorf("unknown resolution %q", c.Resolution)
	}
	return nil
}

// WithDefaults fills unset optional fields.
func (c GenerationConfig) WithDefaults() GenerationConfig {
	if c.Material == "" {
		c.Material = material.Default()
	}
	if c.Resolution == "" {
		c.Resolution = Resolution1080p
	}
	if c.AspectRatio == "" {
		c.AspectRatio = "1:1"
	}
	return c
}
