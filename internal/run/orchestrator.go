// Package run drives a generation run: one list fetch followed by strictly
// sequential per-camera image synthesis, with per-camera status and a
// derived progress signal.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shelfworks/camshelf/internal/material"
	"github.com/shelfworks/camshelf/internal/models"
)

// Phase is the orchestrator's current stage.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseList   Phase = "list"
	PhaseImages Phase = "images"
)

var (
	// ErrAlreadyRunning is returned when a run is started while another is
	// still active.
	ErrAlreadyRunning = errors.New("a generation run is already active")

	// ErrListGenerationFailed wraps any list-phase failure. The run aborts
	// and no cameras are published.
	ErrListGenerationFailed = errors.New("list generation failed")
)

// ListService produces an ordered sequence of camera drafts.
type ListService interface {
	GenerateList(ctx context.Context, count int) ([]models.CameraDraft, error)
}

// ImageService synthesizes one camera portrait over the shared background.
type ImageService interface {
	Synthesize(ctx context.Context, prompt, aspectRatio string, background []byte) ([]byte, error)
}

// TextureService renders the shared background bitmap for a material.
type TextureService interface {
	Generate(id material.ID) ([]byte, error)
}

// Snapshot is an immutable view of the run state, published after every
// transition. Camera image bytes are shared with the orchestrator and must
// be treated as read-only.
type Snapshot struct {
	RunID    string                  `json:"run_id"`
	Phase    Phase                   `json:"phase"`
	Config   models.GenerationConfig `json:"config"`
	Cameras  []models.Camera         `json:"cameras"`
	Progress float64                 `json:"progress"`
}

// Result is a run's terminal outcome. The snapshot is captured under the
// state lock at the moment the run goes idle, so it always describes the run
// that produced it even if another run starts immediately after.
type Result struct {
	Snapshot Snapshot
	Err      error
}

// Orchestrator owns the camera collection. It is the single writer; readers
// only ever see snapshots.
type Orchestrator struct {
	lists    ListService
	images   ImageService
	textures TextureService

	// OnPublish, if set before the first Start, is invoked with a snapshot
	// after every published transition.
	OnPublish func(Snapshot)

	mu      sync.RWMutex
	phase   Phase
	gen     uint64 // run generation; stale publishes are discarded
	runID   string
	cfg     models.GenerationConfig
	cameras []models.Camera
	cancel  context.CancelFunc
}

// New creates an idle orchestrator.
func New(lists ListService, images ImageService, textures TextureService) *Orchestrator {
	return &Orchestrator{
		lists:    lists,
		images:   images,
		textures: textures,
		phase:    PhaseIdle,
	}
}

// Start begins a run and returns immediately with the run id and a channel
// that yields the run's terminal result. It fails fast with ErrAlreadyRunning
// while a run is active.
func (o *Orchestrator) Start(ctx context.Context, cfg models.GenerationConfig) (string, <-chan Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid generation config: %w", err)
	}

	o.mu.Lock()
	if o.phase != PhaseIdle {
		o.mu.Unlock()
		return "", nil, ErrAlreadyRunning
	}
	o.gen++
	gen := o.gen
	o.runID = uuid.NewString()
	runID := o.runID
	o.cfg = cfg
	o.cameras = nil // the prior run's collection is discarded wholesale
	o.phase = PhaseList
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()
	o.publish()

	done := make(chan Result, 1)
	go func() {
		err := o.execute(runCtx, gen, cfg)
		snap := o.finish(gen)
		cancel()
		done <- Result{Snapshot: snap, Err: err}
	}()

	return runID, done, nil
}

// Run executes a run synchronously.
func (o *Orchestrator) Run(ctx context.Context, cfg models.GenerationConfig) error {
	_, done, err := o.Start(ctx, cfg)
	if err != nil {
		return err
	}
	res := <-done
	return res.Err
}

// Cancel aborts the active run, if any. In-flight publishes from the
// aborted run are discarded by the generation guard.
func (o *Orchestrator) Cancel() {
	o.mu.RLock()
	cancel := o.cancel
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Busy reports whether a run is active.
func (o *Orchestrator) Busy() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase != PhaseIdle
}

// Snapshot returns the currently published run state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) execute(ctx context.Context, gen uint64, cfg models.GenerationConfig) error {
	slog.Info("Starting generation run", "count", cfg.Count, "material", cfg.Material, "resolution", cfg.Resolution)

	drafts, err := o.lists.GenerateList(ctx, cfg.Count)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListGenerationFailed, err)
	}

	cameras := make([]models.Camera, len(drafts))
	for i, d := range drafts {
		cameras[i] = models.Camera{
			ID:          uuid.NewString(),
			Name:        d.Name,
			Year:        d.Year,
			Description: d.Description,
			WidthMM:     d.WidthMM,
			HeightMM:    d.HeightMM,
			DepthMM:     d.DepthMM,
			Status:      models.StatusPending,
		}
	}
	o.replaceCameras(gen, cameras)
	slog.Info("Camera list generated", "cameras", len(cameras))

	// One background per run, reused identically for every camera so the
	// shelf looks consistent across cells.
	background, err := o.textures.Generate(cfg.Material)
	if err != nil {
		return fmt.Errorf("failed to generate background texture: %w", err)
	}

	for i := range cameras {
		if err := ctx.Err(); err != nil {
			slog.Info("Generation run canceled", "processed", i, "total", len(cameras))
			return err
		}

		o.setStatus(gen, i, models.StatusGenerating)
		slog.Info("Synthesizing camera image", "camera", cameras[i].Name, "index", fmt.Sprintf("%d/%d", i+1, len(cameras)))

		data, err := o.images.Synthesize(ctx, promptFor(cameras[i]), cfg.AspectRatio, background)
		if err != nil || len(data) == 0 {
			// One failed camera never aborts the run.
			slog.Warn("Image synthesis failed", "camera", cameras[i].Name, "error", err)
			o.setStatus(gen, i, models.StatusError)
			continue
		}
		o.setImage(gen, i, data)
	}

	slog.Info("Generation run finished", "cameras", len(cameras))
	return nil
}

// promptFor builds the entity-specific synthesis prompt.
func promptFor(cam models.Camera) string {
	return fmt.Sprintf(
		"A detailed product photograph of the %s, a vintage camera from %d. %s "+
			"The camera sits centered on the recessed display shelf shown in the reference image, "+
			"lit softly from above, with the shelf background kept intact.",
		cam.Name, cam.Year, cam.Description)
}

// replaceCameras publishes a whole new collection and advances to the image
// phase. Discarded if the run generation has moved on.
func (o *Orchestrator) replaceCameras(gen uint64, cameras []models.Camera) {
	o.mu.Lock()
	if o.gen != gen {
		o.mu.Unlock()
		return
	}
	o.cameras = cameras
	o.phase = PhaseImages
	o.mu.Unlock()
	o.publish()
}

func (o *Orchestrator) setStatus(gen uint64, i int, status models.Status) {
	o.mu.Lock()
	if o.gen != gen || i >= len(o.cameras) {
		o.mu.Unlock()
		return
	}
	o.cameras[i].Status = status
	o.mu.Unlock()
	o.publish()
}

// setImage stores the artifact and marks the camera completed in one step,
// preserving the completed-iff-image invariant.
func (o *Orchestrator) setImage(gen uint64, i int, data []byte) {
	o.mu.Lock()
	if o.gen != gen || i >= len(o.cameras) {
		o.mu.Unlock()
		return
	}
	o.cameras[i].Image = data
	o.cameras[i].Status = models.StatusCompleted
	o.mu.Unlock()
	o.publish()
}

// finish returns the orchestrator to idle and captures the terminal snapshot
// in the same critical section, before any later run can touch the state.
func (o *Orchestrator) finish(gen uint64) Snapshot {
	o.mu.Lock()
	if o.gen != gen {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap
	}
	o.phase = PhaseIdle
	o.cancel = nil
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.publish()
	return snap
}

func (o *Orchestrator) publish() {
	o.mu.RLock()
	snap := o.snapshotLocked()
	cb := o.OnPublish
	o.mu.RUnlock()
	if cb != nil {
		cb(snap)
	}
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	cameras := make([]models.Camera, len(o.cameras))
	copy(cameras, o.cameras)
	return Snapshot{
		RunID:    o.runID,
		Phase:    o.phase,
		Config:   o.cfg,
		Cameras:  cameras,
		Progress: progress(o.cameras),
	}
}

// progress is the settled fraction of the published collection; it reaches
// 1.0 exactly when every camera is completed or error.
func progress(cameras []models.Camera) float64 {
	if len(cameras) == 0 {
		return 0
	}
	settled := 0
	for _, cam := range cameras {
		if cam.Status.Settled() {
			settled++
		}
	}
	return float64(settled) / float64(len(cameras))
}
