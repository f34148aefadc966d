package renderer

import (
	"fmt"
	"image/color"
	"runtime"
	"strings"
)

type SchedulerType uint8

const (
	EvenSchedule SchedulerType = iota
	AdaptiveSchedule
)

func (s SchedulerType) String() string {
	switch s {
	case EvenSchedule:
		return "even"
	case AdaptiveSchedule:
		return "adaptive"
	}
	return fmt.Sprintf("scheduler(%d)", uint8(s))
}

// Parse a scheduler name as used by the CLI.
func ParseSchedulerType(name string) (SchedulerType, error) {
	switch strings.ToLower(name) {
	case "even":
		return EvenSchedule, nil
	case "adaptive":
		return AdaptiveSchedule, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownScheduler, name)
}

// Render options. The frame size is not part of the options; every frame is
// sized from the camera snapshot taken when rendering starts.
type Options struct {
	// Number of column chunks per frame; 0 selects runtime.NumCPU(). The
	// scheduler never creates more chunks than frame columns.
	NumChunks int

	// Number of pool workers; 0 selects NumChunks.
	NumWorkers int

	// Colour for pixels whose ray misses the scene. The zero value is black.
	Background color.RGBA

	// Column scheduling strategy.
	Scheduler SchedulerType
}

// Check the options and fill in defaults.
func (opts *Options) Validate() error {
	if opts.NumChunks < 0 {
		return ErrInvalidChunkCount
	}
	if opts.NumWorkers < 0 {
		return ErrInvalidWorkerCount
	}
	if opts.Scheduler != EvenSchedule && opts.Scheduler != AdaptiveSchedule {
		return ErrUnknownScheduler
	}

	if opts.NumChunks == 0 {
		opts.NumChunks = runtime.NumCPU()
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = opts.NumChunks
	}
	return nil
}
