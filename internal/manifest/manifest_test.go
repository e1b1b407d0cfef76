package manifest

import (
	"path/filepath"
	"testing"

	"github.com/shelfworks/camshelf/internal/models"
)

func testCameras() []models.Camera {
	return []models.Camera{
		{
			ID:          "a",
			Name:        "Leica M3",
			Year:        1954,
			Description: "Rangefinder with a combined viewfinder.",
			WidthMM:     138,
			HeightMM:    77,
			DepthMM:     33.5,
			Image:       []byte("fake-png-bytes"),
			Status:      models.StatusCompleted,
		},
		{
			ID:          "b",
			Name:        "Rolleiflex 2.8F",
			Year:        1960,
			Description: "Twin-lens reflex favored by portraitists.",
			WidthMM:     112,
			HeightMM:    147,
			DepthMM:     104,
			Status:      models.StatusError,
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, ext := range []string{".jsonl", ".parquet"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shelf"+ext)

			if err := Write(path, testCameras()); err != nil {
				t.Fatalf("write failed: %v", err)
			}

			records, err := Read(path)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}

			first := records[0]
			if first.ID != "a" || first.Name != "Leica M3" || first.Year != 1954 {
				t.Errorf("unexpected first record: %+v", first)
			}
			if first.ImageBytes == 0 {
				t.Error("expected image size for completed camera")
			}
			if records[1].Status != string(models.StatusError) || records[1].ImageBytes != 0 {
				t.Errorf("unexpected second record: %+v", records[1])
			}
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.csv")
	if err := Write(path, testCameras()); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Read(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
