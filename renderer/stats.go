package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type ChunkStat struct {
	// The rendered chunk.
	Chunk Chunk

	// The pool worker that processed the chunk.
	Worker int

	// Chunk width as a percentage of the frame width.
	FramePercent float32

	// Render time for the chunk.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual chunk stats in column order.
	Chunks []ChunkStat

	// Time spent generating world-space rays.
	RayGenTime time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Render the stats as a table.
func (stats FrameStats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Chunk", "Worker", "Columns", "% of frame", "Render time"})
	for _, stat := range stats.Chunks {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Chunk.Index),
			fmt.Sprintf("%d", stat.Worker),
			fmt.Sprintf("%d-%d", stat.Chunk.X0, stat.Chunk.X1-1),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.Append([]string{"", "", "", "ray gen", stats.RayGenTime.String()})
	table.SetFooter([]string{"", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	return buf.String()
}
