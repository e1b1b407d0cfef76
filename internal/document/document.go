// Package document lays out the camera collection as a paginated PDF
// catalog: a title block on page one, then one fixed-height row per camera
// that has a synthesized image.
package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shelfworks/camshelf/internal/models"
)

// Page geometry in millimeters (A4 portrait).
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0

	// titleBlockHeight is the vertical room reserved for the title block at
	// the top of page 1.
	titleBlockHeight = 25.0

	// imageSize is the fixed square image block at the left of each row.
	imageSize = 40.0

	// rowHeight is the fixed advance per camera. Descriptions that wrap to
	// more lines than fit may visually overlap the next row; that is a
	// known limitation of the fixed-row layout, not silently corrected.
	rowHeight = 50.0

	// breakThreshold: a new page starts when the cursor exceeds this.
	breakThreshold = pageHeight - 60.0
)

// Placement locates one camera row in the paginated document.
type Placement struct {
	Index int
	Page  int
	Y     float64
}

// registrableImageType maps an artifact to the fpdf image type string, or ""
// when fpdf cannot register the format.
func registrableImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

// Paginate computes the page and vertical position of every camera that has
// a usable image artifact, in collection order. Cameras without an artifact,
// or with one in a format the PDF writer cannot embed, are skipped entirely.
// Pages are numbered from 1.
func Paginate(cameras []models.Camera) []Placement {
	var placements []Placement
	page := 1
	y := margin + titleBlockHeight
	for i, cam := range cameras {
		if !cam.HasImage() || registrableImageType(cam.Image) == "" {
			continue
		}
		if y > breakThreshold {
			page++
			y = margin
		}
		placements = append(placements, Placement{Index: i, Page: page, Y: y})
		y += rowHeight
	}
	return placements
}

// Render produces the PDF catalog for the collection.
func Render(cameras []models.Camera, cfg models.GenerationConfig) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	drawTitleBlock(pdf, tr, cfg)

	for _, cam := range cameras {
		if cam.HasImage() && registrableImageType(cam.Image) == "" {
			slog.Warn("Skipping camera with unsupported image format", "camera", cam.Name)
		}
	}

	currentPage := 1
	for _, p := range Paginate(cameras) {
		for currentPage < p.Page {
			pdf.AddPage()
			currentPage++
		}
		drawRow(pdf, tr, cameras[p.Index], p.Y)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document export failed: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTitleBlock(pdf *fpdf.Fpdf, tr func(string) string, cfg models.GenerationConfig) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageWidth-2*margin, 8, tr("Vintage Camera Archive"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	subtitle := fmt.Sprintf("%s shelf, exported %s", cfg.Material, time.Now().Format("January 2, 2006"))
	pdf.SetXY(margin, margin+9)
	pdf.CellFormat(pageWidth-2*margin, 5, tr(subtitle), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawRow(pdf *fpdf.Fpdf, tr func(string) string, cam models.Camera, y float64) {
	opts := fpdf.ImageOptions{ImageType: registrableImageType(cam.Image)}
	pdf.RegisterImageOptionsReader("cam-"+cam.ID, opts, bytes.NewReader(cam.Image))
	pdf.ImageOptions("cam-"+cam.ID, margin, y, imageSize, imageSize, false, opts, 0, "")

	textX := margin + imageSize + 6
	textWidth := pageWidth - margin - textX

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(textX, y)
	pdf.CellFormat(textWidth, 6, tr(fmt.Sprintf("%s (%d)", cam.Name, cam.Year)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(textX, y+7)
	dims := fmt.Sprintf("%gmm W x %gmm H x %gmm D", cam.WidthMM, cam.HeightMM, cam.DepthMM)
	pdf.CellFormat(textWidth, 5, tr(dims), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(textX, y+13)
	pdf.MultiCell(textWidth, 4.5, tr(cam.Description), "", "L", false)
}
