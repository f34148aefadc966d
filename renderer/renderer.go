package renderer

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/venomrt/venom/camera"
	"github.com/venomrt/venom/log"
	"github.com/venomrt/venom/tracer"
)

// Renderer casts one ray per pixel and colours each pixel with the normal of
// the closest surface. Frames are split into column chunks that are processed
// by a persistent pool of workers.
type Renderer struct {
	logger log.Logger

	// Serializes Render, Stats and Close.
	mu sync.Mutex
	wg sync.WaitGroup

	scene     tracer.Scene
	camera    *camera.Camera
	opts      Options
	scheduler ColumnScheduler
	workers   []*worker
	closed    bool

	// Statistics for last rendered frame.
	stats FrameStats
}

// Create a renderer and start its worker pool.
func New(sc tracer.Scene, cam *camera.Camera, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if cam == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	scheduler, err := NewScheduler(opts.Scheduler)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		logger:    log.New("renderer"),
		scene:     sc,
		camera:    cam,
		opts:      opts,
		scheduler: scheduler,
		workers:   make([]*worker, opts.NumWorkers),
	}

	background := [3]uint8{opts.Background.R, opts.Background.G, opts.Background.B}
	for idx := range r.workers {
		r.workers[idx] = newWorker(idx, sc, background)
		r.workers[idx].start(&r.wg)
	}

	r.logger.Debugf(
		"started %d workers (%d chunks, %s scheduler)",
		opts.NumWorkers, opts.NumChunks, opts.Scheduler,
	)
	return r, nil
}

// Render a frame using the current camera state. The camera is read once at
// the start of the call so concurrent camera updates only affect later frames.
// The frame takes the size of the camera snapshot, so resizing the camera
// between frames is picked up by the next Render call.
func (r *Renderer) Render() (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	snap := r.camera.Snapshot()
	frameW, frameH := snap.Intrinsics.Width, snap.Intrinsics.Height
	rays := snap.TransformedRays()
	rayGenTime := time.Since(start)

	// The adaptive scheduler falls back to an even split when the last
	// frame's chunks do not cover frameW (e.g. after a resize).
	chunks := r.scheduler.Schedule(frameW, r.opts.NumChunks, r.stats.Chunks)
	frame := NewFrame(frameW, frameH)

	doneChan := make(chan ChunkStat, len(chunks))
	errChan := make(chan error, len(chunks))
	var abort atomic.Bool
	for idx, chunk := range chunks {
		r.workers[idx%len(r.workers)].reqChan <- chunkRequest{
			Region:   frame.Region(chunk),
			Rays:     rays,
			Abort:    &abort,
			DoneChan: doneChan,
			ErrChan:  errChan,
		}
	}

	// Wait for all chunks to complete
	var firstErr error
	chunkStats := make([]ChunkStat, 0, len(chunks))
	for pending := len(chunks); pending > 0; pending-- {
		select {
		case stat := <-doneChan:
			chunkStats = append(chunkStats, stat)
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
				abort.Store(true)
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(chunkStats, func(i, j int) bool {
		return chunkStats[i].Chunk.Index < chunkStats[j].Chunk.Index
	})
	r.stats = FrameStats{
		Chunks:     chunkStats,
		RayGenTime: rayGenTime,
		RenderTime: time.Since(start),
	}

	r.logger.Debugf("rendered %dx%d frame in %s", frameW, frameH, r.stats.RenderTime)
	return frame, nil
}

// Get statistics for the last successfully rendered frame.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.stats
	stats.Chunks = append([]ChunkStat(nil), r.stats.Chunks...)
	return stats
}

// Get the validated render options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Stop the worker pool. Calling Close more than once is a no-op.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, w := range r.workers {
		w.close()
	}
	r.wg.Wait()
	r.logger.Debug("worker pool stopped")
}
