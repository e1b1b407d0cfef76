package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shelfworks/camshelf/internal/models"
	"github.com/shelfworks/camshelf/internal/run"
	"github.com/shelfworks/camshelf/internal/storage"
)

// cameraView is a camera as reported over the API; image bytes stay server
// side, only their presence is exposed.
type cameraView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Year        int           `json:"year"`
	Description string        `json:"description"`
	WidthMM     float64       `json:"width_mm"`
	HeightMM    float64       `json:"height_mm"`
	DepthMM     float64       `json:"depth_mm"`
	Status      models.Status `json:"status"`
	HasImage    bool          `json:"has_image"`
}

type runView struct {
	RunID    string                  `json:"run_id"`
	Phase    run.Phase               `json:"phase"`
	Config   models.GenerationConfig `json:"config"`
	Progress float64                 `json:"progress"`
	Cameras  []cameraView            `json:"cameras"`
}

func viewOf(snap run.Snapshot) runView {
	view := runView{
		RunID:    snap.RunID,
		Phase:    snap.Phase,
		Config:   snap.Config,
		Progress: snap.Progress,
		Cameras:  make([]cameraView, 0, len(snap.Cameras)),
	}
	for _, cam := range snap.Cameras {
		view.Cameras = append(view.Cameras, cameraView{
			ID:          cam.ID,
			Name:        cam.Name,
			Year:        cam.Year,
			Description: cam.Description,
			WidthMM:     cam.WidthMM,
			HeightMM:    cam.HeightMM,
			DepthMM:     cam.DepthMM,
			Status:      cam.Status,
			HasImage:    cam.HasImage(),
		})
	}
	return view
}

// HandleRuns starts a run (POST) or lists archived runs (GET).
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		var cfg models.GenerationConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		runID, done, err := h.orchestrator.Start(context.Background(), cfg)
		if errors.Is(err, run.ErrAlreadyRunning) {
			h.writeError(w, "A generation run is already active", http.StatusConflict)
			return
		}
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		go h.archiveWhenDone(runID, done)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{"run_id": runID}); err != nil {
			slog.Error("Unable to encode JSON response", "err", err)
		}
	case "GET":
		views := make([]runView, 0)
		for _, stored := range h.runStore.GetAll() {
			views = append(views, viewOf(stored.Snapshot))
		}
		h.writeJSON(w, views)
	case "DELETE":
		runID := r.URL.Query().Get("run")
		if runID == "" {
			h.writeError(w, "Missing run parameter", http.StatusBadRequest)
			return
		}
		if _, exists := h.runStore.Get(runID); !exists {
			h.writeError(w, "No archived run with id "+runID, http.StatusNotFound)
			return
		}
		h.runStore.Delete(runID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// archiveWhenDone stores the run's terminal snapshot. The snapshot travels
// with the result rather than being read back from the orchestrator, which
// may already be serving a newer run by the time the channel delivers.
func (h *Handler) archiveWhenDone(runID string, done <-chan run.Result) {
	res := <-done
	stored := &storage.StoredRun{
		Snapshot:   res.Snapshot,
		FinishedAt: time.Now(),
	}
	if res.Err != nil {
		stored.Err = res.Err.Error()
		slog.Error("Generation run failed", "run_id", runID, "error", res.Err)
	}
	h.runStore.Set(runID, stored)
}

// HandleCurrentRun reports (GET) or cancels (DELETE) the active run.
func (h *Handler) HandleCurrentRun(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, viewOf(h.orchestrator.Snapshot()))
	case "DELETE":
		if !h.orchestrator.Busy() {
			h.writeError(w, "No active run", http.StatusNotFound)
			return
		}
		h.orchestrator.Cancel()
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
