package document

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/shelfworks/camshelf/internal/material"
	"github.com/shelfworks/camshelf/internal/models"
)

func camerasWithImages(t *testing.T, n int) []models.Camera {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(64, 64, color.NRGBA{R: 0x80, A: 0xff})); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	img := buf.Bytes()

	cameras := make([]models.Camera, n)
	for i := range cameras {
		cameras[i] = models.Camera{
			ID:          fmt.Sprintf("cam-%d", i),
			Name:        fmt.Sprintf("Camera %d", i),
			Year:        1950 + i,
			Description: "A camera that mattered.",
			WidthMM:     138,
			HeightMM:    77,
			DepthMM:     33.5,
			Image:       img,
			Status:      models.StatusCompleted,
		}
	}
	return cameras
}

func TestPaginateSkipsMissingArtifacts(t *testing.T) {
	cameras := camerasWithImages(t, 3)
	cameras[1].Image = nil
	cameras[1].Status = models.StatusError

	placements := Paginate(cameras)
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}
	if placements[0].Index != 0 || placements[1].Index != 2 {
		t.Errorf("unexpected placement indices: %+v", placements)
	}
	// The skipped camera leaves no blank row.
	if placements[1].Y != placements[0].Y+rowHeight {
		t.Errorf("skipped camera left a gap: %+v", placements)
	}
}

func TestUnsupportedImageFormatSkipped(t *testing.T) {
	cameras := camerasWithImages(t, 3)
	// A webp payload; fpdf has no decoder for it.
	cameras[1].Image = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 64)...)

	placements := Paginate(cameras)
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}
	if placements[0].Index != 0 || placements[1].Index != 2 {
		t.Errorf("unexpected placement indices: %+v", placements)
	}

	cfg := models.GenerationConfig{Count: 3, Material: material.Wood, Resolution: models.Resolution1080p}
	data, err := Render(cameras, cfg)
	if err != nil {
		t.Fatalf("render should survive an unembeddable artifact, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestPaginatePageBreaks(t *testing.T) {
	cameras := camerasWithImages(t, 12)
	placements := Paginate(cameras)

	// Page 1 starts below the title block; rows advance by a fixed 50
	// units; a break happens when the cursor exceeds pageHeight-60.
	y := margin + titleBlockHeight
	page := 1
	for i, p := range placements {
		if y > breakThreshold {
			page++
			y = margin
		}
		if p.Page != page || p.Y != y {
			t.Errorf("placement %d: got page %d y %f, want page %d y %f", i, p.Page, p.Y, page, y)
		}
		y += rowHeight
	}

	if placements[0].Page != 1 {
		t.Errorf("first row on page %d, want 1", placements[0].Page)
	}
	if last := placements[len(placements)-1]; last.Page < 2 {
		t.Errorf("expected 12 rows to spill onto a later page, last page = %d", last.Page)
	}
}

func TestPaginateRowsNeverExceedThreshold(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for _, p := range Paginate(camerasWithImages(t, n)) {
			if p.Y > breakThreshold {
				t.Errorf("n=%d: row placed at y=%f beyond threshold %f", n, p.Y, breakThreshold)
			}
		}
	}
}

func TestPaginateLaterPagesStartAtMargin(t *testing.T) {
	placements := Paginate(camerasWithImages(t, 12))
	seen := map[int]bool{}
	for _, p := range placements {
		if seen[p.Page] {
			continue
		}
		seen[p.Page] = true
		if p.Page > 1 && p.Y != margin {
			t.Errorf("page %d starts at y=%f, want top margin %f", p.Page, p.Y, margin)
		}
	}
}

func TestRenderProducesPDF(t *testing.T) {
	cfg := models.GenerationConfig{Count: 4, Material: material.Wood, Resolution: models.Resolution1080p}

	data, err := Render(camerasWithImages(t, 4), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestRenderEmptyCollection(t *testing.T) {
	cfg := models.GenerationConfig{Count: 2, Material: material.Slate, Resolution: models.Resolution1080p}

	data, err := Render(nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("empty collection should still yield a title-only document")
	}
}
