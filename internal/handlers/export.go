package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shelfworks/camshelf/internal/composite"
	"github.com/shelfworks/camshelf/internal/document"
	"github.com/shelfworks/camshelf/internal/models"
	"github.com/shelfworks/camshelf/internal/run"
)

// snapshotForExport resolves which collection an export request reads: a
// stored run when ?run= is given, otherwise the currently published
// snapshot. Exports against a mid-run snapshot are best-effort.
func (h *Handler) snapshotForExport(w http.ResponseWriter, r *http.Request) (run.Snapshot, bool) {
	if runID := r.URL.Query().Get("run"); runID != "" {
		stored, exists := h.runStore.Get(runID)
		if !exists {
			h.writeError(w, "Run not found", http.StatusNotFound)
			return run.Snapshot{}, false
		}
		return stored.Snapshot, true
	}
	return h.orchestrator.Snapshot(), true
}

// HandleExportGrid streams the composite grid PNG for a run.
func (h *Handler) HandleExportGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := h.snapshotForExport(w, r)
	if !ok {
		return
	}
	if len(snap.Cameras) == 0 {
		h.writeError(w, "No cameras to export", http.StatusNotFound)
		return
	}

	cfg := snap.Config
	if res := r.URL.Query().Get("resolution"); res != "" {
		cfg.Resolution = models.Resolution(res)
		if !cfg.Resolution.Valid() {
			h.writeError(w, "Unknown resolution: "+res, http.StatusBadRequest)
			return
		}
	}

	data, err := composite.Render(snap.Cameras, cfg)
	if err != nil {
		h.writeError(w, "Grid export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", composite.Filename(cfg.Resolution)))
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to stream grid export", "err", err)
	}
}

// HandleExportDocument streams the paginated PDF catalog for a run.
func (h *Handler) HandleExportDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := h.snapshotForExport(w, r)
	if !ok {
		return
	}
	if len(snap.Cameras) == 0 {
		h.writeError(w, "No cameras to export", http.StatusNotFound)
		return
	}

	data, err := document.Render(snap.Cameras, snap.Config)
	if err != nil {
		h.writeError(w, "Document export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="camera-archive.pdf"`)
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to stream document export", "err", err)
	}
}
