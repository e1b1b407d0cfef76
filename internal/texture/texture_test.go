package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/shelfworks/camshelf/internal/material"
)

func TestGenerateSolidFill(t *testing.T) {
	g := NewGenerator()

	data, err := g.Generate(material.Marble)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png output, got %s", format)
	}
	if img.Bounds().Dx() != Size || img.Bounds().Dy() != Size {
		t.Errorf("expected %dx%d, got %v", Size, Size, img.Bounds())
	}
}

func TestGenerateDeterministicWithoutPattern(t *testing.T) {
	g := NewGenerator()

	first, err := g.Generate(material.Slate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.Generate(material.Slate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected identical output for identical material")
	}
}

func TestGenerateUnknownMaterial(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Generate(material.ID("velvet")); err == nil {
		t.Error("expected error for unknown material")
	}
}

func TestFetchPattern(t *testing.T) {
	pattern := imaging.New(32, 32, color.NRGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff})
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, pattern); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr bool
	}{
		{
			name: "valid pattern",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write(encoded.Bytes()); err != nil {
					t.Errorf("failed to write fixture: %v", err)
				}
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantErr: true,
		},
		{
			name: "tiny placeholder",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("nope")); err != nil {
					t.Errorf("failed to write fixture: %v", err)
				}
			},
			wantErr: true,
		},
		{
			name: "oversized payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write(make([]byte, maxPatternBytes+1)); err != nil {
					t.Errorf("failed to write fixture: %v", err)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			g := NewGenerator()
			img, err := g.fetchPattern(server.URL)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != 32 {
				t.Errorf("unexpected pattern bounds: %v", img.Bounds())
			}
		})
	}
}

func TestTileCoversCanvas(t *testing.T) {
	canvas := imaging.New(Size, Size, color.NRGBA{A: 0xff})
	pattern := imaging.New(100, 100, color.NRGBA{R: 0xff, A: 0xff})

	tile(canvas, pattern)

	// Corners of the canvas must all carry the pattern color, including the
	// bottom-right partial tile.
	for _, pt := range []image.Point{{0, 0}, {Size - 1, 0}, {0, Size - 1}, {Size - 1, Size - 1}} {
		r, _, _, _ := canvas.At(pt.X, pt.Y).RGBA()
		if r == 0 {
			t.Errorf("canvas not tiled at %v", pt)
		}
	}
}
