package renderer

import "math"

// A contiguous range of frame columns [X0, X1).
type Chunk struct {
	Index int
	X0    uint32
	X1    uint32
}

// Number of columns in the chunk.
func (c Chunk) Width() uint32 {
	return c.X1 - c.X0
}

// The ColumnScheduler interface is implemented by all column scheduling algorithms.
type ColumnScheduler interface {
	// Split the frame into numChunks disjoint, ordered column ranges that
	// cover every column. The stats of the previous frame (if any) may be
	// used to balance the workload. If numChunks exceeds frameW, frameW
	// chunks are returned.
	Schedule(frameW uint32, numChunks int, lastFrame []ChunkStat) []Chunk
}

// Create a scheduler for the given type.
func NewScheduler(schedulerType SchedulerType) (ColumnScheduler, error) {
	switch schedulerType {
	case EvenSchedule:
		return EvenScheduler{}, nil
	case AdaptiveSchedule:
		return &AdaptiveScheduler{}, nil
	}
	return nil, ErrUnknownScheduler
}

// The even scheduler assigns frameW/numChunks columns to every chunk; the last
// chunk also receives any remaining columns.
type EvenScheduler struct{}

func (EvenScheduler) Schedule(frameW uint32, numChunks int, _ []ChunkStat) []Chunk {
	if frameW == 0 {
		return nil
	}
	numChunks = clampChunks(frameW, numChunks)
	widths := make([]uint32, numChunks)

	chunkW := frameW / uint32(numChunks)
	for idx := range widths {
		widths[idx] = chunkW
	}
	widths[numChunks-1] = frameW - uint32(numChunks-1)*chunkW

	return chunksFromWidths(widths)
}

// The adaptive scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same. It behaves like the even
// scheduler for the first frame and then resizes each chunk in proportion
// to the columns/ns throughput measured for it in the previous frame:
//
// w_i, f_i+1 = (cols_i / time_i) / Σ(cols_j / time_j) * frameW
//
// Each chunk gets at least one column and any rounding remainder is
// appended to the last chunk.
type AdaptiveScheduler struct {
	widths []uint32
}

func (sch *AdaptiveScheduler) Schedule(frameW uint32, numChunks int, lastFrame []ChunkStat) []Chunk {
	if frameW == 0 {
		return nil
	}
	numChunks = clampChunks(frameW, numChunks)

	// If this is the first time we schedule or the layout has changed we
	// need to reset the assignments
	if !sch.canReuse(frameW, numChunks, lastFrame) {
		even := EvenScheduler{}.Schedule(frameW, numChunks, nil)
		sch.widths = make([]uint32, len(even))
		for idx, chunk := range even {
			sch.widths[idx] = chunk.Width()
		}
		return even
	}

	var total float64
	speeds := make([]float64, numChunks)
	for idx, stat := range lastFrame {
		nanos := math.Max(1.0, float64(stat.RenderTime.Nanoseconds()))
		speeds[idx] = float64(stat.Chunk.Width()) / nanos
		total += speeds[idx]
	}

	scaler := float64(frameW) / total
	var scheduled uint32
	for idx := range speeds {
		sch.widths[idx] = uint32(math.Max(1.0, math.Floor(speeds[idx]*scaler)))
		scheduled += sch.widths[idx]
	}

	// Minimum widths may overshoot the frame; take the excess from the
	// widest chunks.
	for scheduled > frameW {
		widest := 0
		for idx, w := range sch.widths {
			if w > sch.widths[widest] {
				widest = idx
			}
		}
		sch.widths[widest]--
		scheduled--
	}

	// In case columns don't add up to the frame width append the missing ones to the last chunk
	sch.widths[numChunks-1] += frameW - scheduled

	return chunksFromWidths(sch.widths)
}

func (sch *AdaptiveScheduler) canReuse(frameW uint32, numChunks int, lastFrame []ChunkStat) bool {
	if len(sch.widths) != numChunks || len(lastFrame) != numChunks {
		return false
	}

	var covered uint32
	for _, stat := range lastFrame {
		covered += stat.Chunk.Width()
	}
	return covered == frameW
}

func clampChunks(frameW uint32, numChunks int) int {
	if numChunks < 1 {
		numChunks = 1
	}
	if uint32(numChunks) > frameW {
		numChunks = int(frameW)
	}
	return numChunks
}

func chunksFromWidths(widths []uint32) []Chunk {
	chunks := make([]Chunk, len(widths))
	var x uint32
	for idx, w := range widths {
		chunks[idx] = Chunk{Index: idx, X0: x, X1: x + w}
		x += w
	}
	return chunks
}
