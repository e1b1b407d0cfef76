package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shelfworks/camshelf/internal/composite"
	"github.com/shelfworks/camshelf/internal/curation"
	"github.com/shelfworks/camshelf/internal/document"
	"github.com/shelfworks/camshelf/internal/gemini"
	"github.com/shelfworks/camshelf/internal/manifest"
	"github.com/shelfworks/camshelf/internal/material"
	"github.com/shelfworks/camshelf/internal/models"
	"github.com/shelfworks/camshelf/internal/report"
	"github.com/shelfworks/camshelf/internal/run"
	"github.com/shelfworks/camshelf/internal/texture"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var count int
	var materialID string
	var resolution string
	var aspectRatio string
	var outputDir string
	var manifestName string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a full generation pass and export the archive",
		Long: `Generates a camera shelf end to end: fetches the camera list, synthesizes
one portrait per camera in sequence, then writes the grid image, the PDF
catalog, a dataset manifest and a YAML run report into the output directory.

Cameras whose synthesis fails are kept in the collection with an error
status; the run continues and the exports simply skip them.`,
		Example: `  # Six cameras on the default walnut shelf
  camshelf generate

  # A dense 4k shelf on slate, manifest as parquet
  camshelf generate --count 12 --material slate --resolution 4k --manifest shelf.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := models.GenerationConfig{
				Count:       count,
				Material:    material.ID(materialID),
				Resolution:  models.Resolution(resolution),
				AspectRatio: aspectRatio,
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			client := gemini.New()
			orchestrator := run.New(curation.NewService(), client, texture.NewGenerator())

			if err := orchestrator.Run(cmd.Context(), cfg); err != nil {
				return err
			}

			snap := orchestrator.Snapshot()
			return exportAll(snap, outputDir, manifestName)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 6, fmt.Sprintf("Number of cameras (%d-%d)", models.MinCount, models.MaxCount))
	cmd.Flags().StringVarP(&materialID, "material", "m", string(material.Default()), "Shelf material: "+material.Options())
	cmd.Flags().StringVarP(&resolution, "resolution", "r", string(models.Resolution1080p), fmt.Sprintf("Grid resolution %v", models.Resolutions()))
	cmd.Flags().StringVar(&aspectRatio, "aspect", "1:1", "Aspect ratio requested per portrait")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "archive", "Output directory for exported artifacts")
	cmd.Flags().StringVar(&manifestName, "manifest", "shelf.jsonl", "Manifest filename (.jsonl or .parquet)")

	return cmd
}

func exportAll(snap run.Snapshot, outputDir, manifestName string) error {
	grid, err := composite.Render(snap.Cameras, snap.Config)
	if err != nil {
		return err
	}
	gridPath := filepath.Join(outputDir, composite.Filename(snap.Config.Resolution))
	if err := os.WriteFile(gridPath, grid, 0644); err != nil {
		return fmt.Errorf("failed to write grid export: %w", err)
	}
	slog.Info("Grid exported", "path", gridPath)

	doc, err := document.Render(snap.Cameras, snap.Config)
	if err != nil {
		return err
	}
	docPath := filepath.Join(outputDir, "camera-archive.pdf")
	if err := os.WriteFile(docPath, doc, 0644); err != nil {
		return fmt.Errorf("failed to write document export: %w", err)
	}
	slog.Info("Catalog exported", "path", docPath)

	manifestPath := filepath.Join(outputDir, manifestName)
	if err := manifest.Write(manifestPath, snap.Cameras); err != nil {
		return err
	}
	slog.Info("Manifest exported", "path", manifestPath)

	reportPath, err := report.Save(outputDir, snap.Config, snap.Cameras)
	if err != nil {
		return err
	}
	slog.Info("Run report saved", "path", reportPath)

	return nil
}
