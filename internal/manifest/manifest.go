// Package manifest persists a finished camera collection as a dataset file
// so a shelf can be re-inspected offline.
package manifest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/shelfworks/camshelf/internal/models"
)

// Record is one archived camera as persisted in a shelf manifest. Image
// bytes are not persisted, only their size; the raster artifacts live in
// their own export files.
type Record struct {
	ID          string  `json:"id" parquet:"id"`
	Name        string  `json:"name" parquet:"name"`
	Year        int32   `json:"year" parquet:"year"`
	Description string  `json:"description" parquet:"description"`
	WidthMM     float64 `json:"width_mm" parquet:"width_mm"`
	HeightMM    float64 `json:"height_mm" parquet:"height_mm"`
	DepthMM     float64 `json:"depth_mm" parquet:"depth_mm"`
	Status      string  `json:"status" parquet:"status"`
	ImageBytes  int64   `json:"image_bytes" parquet:"image_bytes"`
}

func toRecords(cameras []models.Camera) []Record {
	records := make([]Record, 0, len(cameras))
	for _, cam := range cameras {
		records = append(records, Record{
			ID:          cam.ID,
			Name:        cam.Name,
			Year:        int32(cam.Year),
			Description: cam.Description,
			WidthMM:     cam.WidthMM,
			HeightMM:    cam.HeightMM,
			DepthMM:     cam.DepthMM,
			Status:      string(cam.Status),
			ImageBytes:  int64(len(cam.Image)),
		})
	}
	return records
}

// Write saves the collection to path. The format follows the file
// extension: .parquet or .jsonl.
func Write(path string, cameras []models.Camera) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return writeParquet(path, toRecords(cameras))
	case ".jsonl":
		return writeJSONL(path, toRecords(cameras))
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", path)
	}
}

func writeParquet(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write manifest rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize manifest: %w", err)
	}
	return nil
}

func writeJSONL(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for i, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode manifest row %d: %w", i, err)
		}
	}
	return w.Flush()
}

// Read loads records back from a manifest file, for inspection tooling.
func Read(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(path)
	case ".jsonl":
		return readJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", path)
	}
}

func readParquet(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest file: %w", err)
	}

	reader := parquet.NewGenericReader[Record](file)
	defer reader.Close()

	records := make([]Record, reader.NumRows())
	if len(records) == 0 {
		return nil, nil
	}
	if _, err := reader.Read(records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read manifest rows (%d bytes): %w", info.Size(), err)
	}
	return records, nil
}

func readJSONL(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse manifest line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan manifest: %w", err)
	}
	return records, nil
}
