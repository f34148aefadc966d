package renderer

import "errors"

var (
	ErrClosed             = errors.New("renderer: renderer has been closed")
	ErrSceneNotDefined    = errors.New("renderer: no scene defined")
	ErrCameraNotDefined   = errors.New("renderer: no camera defined")
	ErrInvalidChunkCount  = errors.New("renderer: number of chunks must not be negative")
	ErrInvalidWorkerCount = errors.New("renderer: number of workers must not be negative")
	ErrUnknownScheduler   = errors.New("renderer: unknown scheduler type")

	// Reported by workers whose chunk was skipped after another chunk of the
	// same frame failed.
	errChunkAborted = errors.New("renderer: chunk aborted")
)
