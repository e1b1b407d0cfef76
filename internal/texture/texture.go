// Package texture produces the shared background bitmap fed into every
// image-synthesis request of a run.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/shelfworks/camshelf/internal/material"
)

// Size is the edge length of the square background bitmap in pixels.
const Size = 1024

// maxPatternBytes caps the pattern download; a tileable texture is tiny and
// anything bigger is a misbehaving endpoint.
const maxPatternBytes = 4 << 20

// overlayAlpha darkens the base fill to suggest a recessed shelf.
var overlay = color.NRGBA{R: 0, G: 0, B: 0, A: 60}

// Generator renders material backgrounds. Output is deterministic for a
// given material id except for the optional pattern fetch.
type Generator struct {
	HTTPClient *http.Client
}

// NewGenerator creates a generator with a bounded HTTP client for pattern
// fetches.
func NewGenerator() *Generator {
	return &Generator{
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Generate renders the background for a material as PNG bytes: solid base
// fill, an optional tiled pattern, then a uniform dark overlay. A failed
// pattern fetch falls back to the solid fill and never fails the caller.
func (g *Generator) Generate(id material.ID) ([]byte, error) {
	def, ok := material.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown material %q", id)
	}

	canvas := imaging.New(Size, Size, def.Base)

	if def.PatternURL != "" {
		pattern, err := g.fetchPattern(def.PatternURL)
		if err != nil {
			slog.Warn("Pattern fetch failed, using solid fill", "material", id, "error", err)
		} else {
			tile(canvas, pattern)
		}
	}

	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(overlay), image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode background: %w", err)
	}
	return buf.Bytes(), nil
}

// tile repeats the pattern across the whole canvas.
func tile(canvas *image.NRGBA, pattern image.Image) {
	pw := pattern.Bounds().Dx()
	ph := pattern.Bounds().Dy()
	if pw <= 0 || ph <= 0 {
		return
	}
	for y := 0; y < Size; y += ph {
		for x := 0; x < Size; x += pw {
			r := image.Rect(x, y, x+pw, y+ph)
			draw.Draw(canvas, r, pattern, pattern.Bounds().Min, draw.Over)
		}
	}
}

func (g *Generator) fetchPattern(url string) (image.Image, error) {
	resp, err := g.HTTPClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pattern: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pattern URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPatternBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern data: %w", err)
	}
	if len(data) > maxPatternBytes {
		return nil, fmt.Errorf("pattern exceeds %d bytes", maxPatternBytes)
	}

	// A tiny payload is a placeholder or an error page, not a texture.
	if len(data) < 100 {
		return nil, fmt.Errorf("pattern too small (%d bytes)", len(data))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode pattern: %w", err)
	}
	return img, nil
}
