package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shelfworks/camshelf/internal/curation"
	"github.com/shelfworks/camshelf/internal/gemini"
	"github.com/shelfworks/camshelf/internal/handlers"
	"github.com/shelfworks/camshelf/internal/run"
	"github.com/shelfworks/camshelf/internal/texture"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the archive generation API",
		Long: `Starts a JSON API for driving generation runs and downloading exports.

One run is active at a time; POSTing while a run is in flight returns 409.
Exports read the currently published snapshot, so they can be fetched
mid-run on a best-effort basis.`,
		Example: `  # Start server on default port 8888
  camshelf serve

  # Start server on custom port
  camshelf serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orchestrator := run.New(curation.NewService(), gemini.New(), texture.NewGenerator())
			handler := handlers.New(orchestrator)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/runs", handler.HandleRuns)
			mux.HandleFunc("/api/runs/current", handler.HandleCurrentRun)
			mux.HandleFunc("/api/export/grid", handler.HandleExportGrid)
			mux.HandleFunc("/api/export/document", handler.HandleExportDocument)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Camshelf API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				orchestrator.Cancel()
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
