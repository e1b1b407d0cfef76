package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shelfworks/camshelf/internal/run"
	"github.com/shelfworks/camshelf/internal/storage"
)

type Handler struct {
	orchestrator *run.Orchestrator
	runStore     *storage.RunStore
}

func New(orchestrator *run.Orchestrator) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		runStore:     storage.New(),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
