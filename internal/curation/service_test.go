package curation

import (
	"errors"
	"testing"
)

const validList = `[
  {"name": "Leica M3", "year": 1954, "description": "Rangefinder with a combined viewfinder.", "width_mm": 138, "height_mm": 77, "depth_mm": 33.5},
  {"name": "Rolleiflex 2.8F", "year": 1960, "description": "Twin-lens reflex favored by portraitists.", "width_mm": 112, "height_mm": 147, "depth_mm": 104}
]`

func TestParseDrafts(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain JSON array",
			raw:       validList,
			wantCount: 2,
		},
		{
			name:      "fenced JSON",
			raw:       "```json\n" + validList + "\n```",
			wantCount: 2,
		},
		{
			name:    "not JSON",
			raw:     "Sure! Here are some cameras:",
			wantErr: true,
		},
		{
			name:    "empty array",
			raw:     "[]",
			wantErr: true,
		},
		{
			name:    "missing name",
			raw:     `[{"year": 1954, "description": "x", "width_mm": 1, "height_mm": 1, "depth_mm": 1}]`,
			wantErr: true,
		},
		{
			name:    "missing description",
			raw:     `[{"name": "Leica M3", "year": 1954, "width_mm": 1, "height_mm": 1, "depth_mm": 1}]`,
			wantErr: true,
		},
		{
			name:    "zero dimension",
			raw:     `[{"name": "Leica M3", "year": 1954, "description": "x", "width_mm": 0, "height_mm": 77, "depth_mm": 33.5}]`,
			wantErr: true,
		},
		{
			name:    "negative dimension",
			raw:     `[{"name": "Leica M3", "year": 1954, "description": "x", "width_mm": 138, "height_mm": -77, "depth_mm": 33.5}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ParseDrafts(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(drafts) != tt.wantCount {
				t.Errorf("expected %d drafts, got %d", tt.wantCount, len(drafts))
			}
		})
	}
}

func TestParseDraftsPreservesOrder(t *testing.T) {
	drafts, err := ParseDrafts(validList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drafts[0].Name != "Leica M3" || drafts[1].Name != "Rolleiflex 2.8F" {
		t.Errorf("drafts out of order: %q, %q", drafts[0].Name, drafts[1].Name)
	}
}
