// Package composite renders the camera collection as a single raster grid,
// one recessed cell per camera, at a configurable resolution.
package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/shelfworks/camshelf/internal/material"
	"github.com/shelfworks/camshelf/internal/models"
)

const (
	// Layout constants are defined against a 1920px-wide canvas and scaled
	// proportionally for other resolutions.
	baseCanvasWidth = 1920
	baseGap         = 16
	basePadding     = 24
	borderThickness = 2
)

var (
	cellFill   = color.NRGBA{R: 0, G: 0, B: 0, A: 70}
	cellBorder = color.NRGBA{R: 255, G: 255, B: 255, A: 46}
)

// Geometry is the computed grid layout for one render.
type Geometry struct {
	Columns    int
	Rows       int
	Gap        int
	Padding    int
	CellWidth  int
	CellHeight int
}

// Columns returns the column count for a shelf of the given size.
func Columns(count int) int {
	if count > 6 {
		return 4
	}
	return 3
}

// Layout computes the grid geometry for count cells on a canvas of the
// given pixel dimensions.
func Layout(count, canvasWidth, canvasHeight int) Geometry {
	cols := Columns(count)
	rows := (count + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}

	scale := float64(canvasWidth) / baseCanvasWidth
	gap := int(math.Round(baseGap * scale))
	padding := int(math.Round(basePadding * scale))

	innerWidth := canvasWidth - 2*padding - (cols-1)*gap
	innerHeight := canvasHeight - 2*padding - (rows-1)*gap

	return Geometry{
		Columns:    cols,
		Rows:       rows,
		Gap:        gap,
		Padding:    padding,
		CellWidth:  innerWidth / cols,
		CellHeight: innerHeight / rows,
	}
}

// CellOrigin returns the top-left pixel of cell i in collection order.
func (g Geometry) CellOrigin(i int) (x, y int) {
	col := i % g.Columns
	row := i / g.Columns
	x = g.Padding + col*(g.CellWidth+g.Gap)
	y = g.Padding + row*(g.CellHeight+g.Gap)
	return x, y
}

// coverCrop returns the source-image region that aspect-fills a cell of
// cellWidth x cellHeight: the largest centered region with the cell's
// aspect ratio. Resizing that region to the cell gives object-cover
// semantics with centering error of at most one pixel.
func coverCrop(bounds image.Rectangle, cellWidth, cellHeight int) image.Rectangle {
	imgW := bounds.Dx()
	imgH := bounds.Dy()
	imgAspect := float64(imgW) / float64(imgH)
	cellAspect := float64(cellWidth) / float64(cellHeight)

	cropW, cropH := imgW, imgH
	if imgAspect > cellAspect {
		// Image proportionally wider than the cell: crop the sides.
		cropW = int(math.Round(float64(imgH) * cellAspect))
	} else {
		cropH = int(math.Round(float64(imgW) / cellAspect))
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x0 := bounds.Min.X + (imgW-cropW)/2
	y0 := bounds.Min.Y + (imgH-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// Render rasterizes the collection into a PNG grid at the exact pixel
// dimensions of the configured resolution. Cameras without an image keep
// the recessed cell background. Render never mutates the input and is
// deterministic for identical inputs.
func Render(cameras []models.Camera, cfg models.GenerationConfig) ([]byte, error) {
	width, height := cfg.Resolution.Dimensions()

	def, ok := material.Lookup(cfg.Material)
	if !ok {
		def, _ = material.Lookup(material.Default())
	}

	// The grid fill uses the material's base color only; pattern tiling is
	// the texture generator's concern.
	canvas := imaging.New(width, height, def.Base)
	geo := Layout(len(cameras), width, height)

	for i, cam := range cameras {
		x, y := geo.CellOrigin(i)
		cell := image.Rect(x, y, x+geo.CellWidth, y+geo.CellHeight)

		draw.Draw(canvas, cell, image.NewUniform(cellFill), image.Point{}, draw.Over)
		drawBorder(canvas, cell)

		if !cam.HasImage() {
			continue
		}

		img, err := imaging.Decode(bytes.NewReader(cam.Image))
		if err != nil {
			slog.Warn("Skipping undecodable camera image", "camera", cam.Name, "error", err)
			continue
		}

		cropped := imaging.Crop(img, coverCrop(img.Bounds(), geo.CellWidth, geo.CellHeight))
		fitted := imaging.Resize(cropped, geo.CellWidth, geo.CellHeight, imaging.Lanczos)
		// fitted is exactly cell-sized, so drawing into the cell rectangle
		// clips any overflow by construction.
		draw.Draw(canvas, cell, fitted, fitted.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("grid export failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename names the grid artifact by its pixel dimensions.
func Filename(r models.Resolution) string {
	w, h := r.Dimensions()
	return fmt.Sprintf("camera-archive-%dx%d.png", w, h)
}

func drawBorder(canvas *image.NRGBA, cell image.Rectangle) {
	src := image.NewUniform(cellBorder)
	t := borderThickness
	edges := []image.Rectangle{
		image.Rect(cell.Min.X, cell.Min.Y, cell.Max.X, cell.Min.Y+t),
		image.Rect(cell.Min.X, cell.Max.Y-t, cell.Max.X, cell.Max.Y),
		image.Rect(cell.Min.X, cell.Min.Y, cell.Min.X+t, cell.Max.Y),
		image.Rect(cell.Max.X-t, cell.Min.Y, cell.Max.X, cell.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(canvas, e, src, image.Point{}, draw.Over)
	}
}
