package renderer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"github.com/venomrt/venom/log"
	"github.com/venomrt/venom/tracer"
	"github.com/venomrt/venom/types"
)

// A unit of work that is processed by a pool worker.
type chunkRequest struct {
	// The frame region to fill in.
	Region *Region

	// World-space rays for the whole frame in row-major order.
	Rays []types.Ray

	// Set when another chunk of the same frame has failed.
	Abort *atomic.Bool

	// A channel to signal on chunk completion.
	DoneChan chan<- ChunkStat

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

type worker struct {
	logger log.Logger

	id         int
	scene      tracer.Scene
	background [3]uint8

	// A channel for receiving chunk requests from the renderer.
	reqChan chan chunkRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}
}

func newWorker(id int, sc tracer.Scene, background [3]uint8) *worker {
	return &worker{
		logger:     log.New(fmt.Sprintf("render worker %d", id)),
		id:         id,
		scene:      sc,
		background: background,
		reqChan:    make(chan chunkRequest),
		closeChan:  make(chan struct{}),
	}
}

// Start processing incoming chunk requests until the worker is closed.
func (w *worker) start(wg *sync.WaitGroup) {
	readyChan := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(readyChan)
		for {
			select {
			case req := <-w.reqChan:
				// Render chunk and reply with our completion status
				renderTime, err := w.process(req)
				switch {
				case errors.Is(err, errChunkAborted):
					// Release the barrier without reporting a failure
					req.DoneChan <- ChunkStat{Chunk: req.Region.Chunk(), Worker: w.id}
					continue
				case err != nil:
					req.ErrChan <- err
					continue
				}
				req.DoneChan <- ChunkStat{
					Chunk:        req.Region.Chunk(),
					Worker:       w.id,
					FramePercent: 100 * float32(req.Region.Chunk().Width()) / float32(req.Region.frame.Width),
					RenderTime:   renderTime,
				}
			case <-w.closeChan:
				return
			}
		}
	}()

	// Wait for worker goroutine to start
	<-readyChan
}

func (w *worker) close() {
	close(w.closeChan)
}

// Trace every ray in the region's columns.
func (w *worker) process(req chunkRequest) (time.Duration, error) {
	start := time.Now()
	chunk := req.Region.Chunk()
	frameW := req.Region.frame.Width

	var hit tracer.Hit
	for y := uint32(0); y < req.Region.frame.Height; y++ {
		if req.Abort.Load() {
			return 0, errChunkAborted
		}

		rowBase := int(y) * int(frameW)
		for x := chunk.X0; x < chunk.X1; x++ {
			found, err := w.scene.Intersect(req.Rays[rowBase+int(x)], &hit)
			if err != nil {
				return 0, fmt.Errorf("renderer: chunk %d: pixel (%d, %d): %w", chunk.Index, x, y, err)
			}

			if found {
				req.Region.Set(x, y, shadeNormal(hit.Normal))
			} else {
				req.Region.Set(x, y, w.background)
			}
		}
	}

	return time.Since(start), nil
}

// Map each normal component to a colour channel: clamp(255 * n, 0, 255).
func shadeNormal(n types.Vec3) [3]uint8 {
	return [3]uint8{toChannel(n[0]), toChannel(n[1]), toChannel(n[2])}
}

func toChannel(v float32) uint8 {
	v *= 255
	if !(v > 0) {
		return 0
	}
	return uint8(math32.Min(v, 255))
}
