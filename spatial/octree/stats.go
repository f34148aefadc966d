package octree

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Node and vertex counts for a single tree level.
type LevelStats struct {
	Depth    int
	Nodes    int
	Leaves   int
	Vertices int
}

type Stats struct {
	Nodes       int
	Leaves      int
	EmptyLeaves int
	Vertices    int
	MaxBucket   int

	// Per-level breakdown, ordered by depth.
	Levels []LevelStats
}

// Collect tree statistics.
func (t *Octree) Stats() Stats {
	stats := Stats{
		Nodes:  len(t.nodes),
		Levels: make([]LevelStats, t.maxDepth+1),
	}
	for depth := range stats.Levels {
		stats.Levels[depth].Depth = depth
	}

	for idx := range t.nodes {
		node := &t.nodes[idx]
		level := &stats.Levels[node.Depth]
		level.Nodes++
		if node.Kind != Leaf {
			continue
		}

		stats.Leaves++
		level.Leaves++
		level.Vertices += len(node.Vertices)
		stats.Vertices += len(node.Vertices)
		if len(node.Vertices) == 0 {
			stats.EmptyLeaves++
		}
		if len(node.Vertices) > stats.MaxBucket {
			stats.MaxBucket = len(node.Vertices)
		}
	}
	return stats
}

// Render the per-level breakdown as a table.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Depth", "Nodes", "Leaves", "Vertices"})

	for _, level := range s.Levels {
		if level.Nodes == 0 {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", level.Depth),
			fmt.Sprintf("%d", level.Nodes),
			fmt.Sprintf("%d", level.Leaves),
			fmt.Sprintf("%d", level.Vertices),
		})
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", s.Nodes),
		fmt.Sprintf("%d (%d empty)", s.Leaves, s.EmptyLeaves),
		fmt.Sprintf("%d (max bucket %d)", s.Vertices, s.MaxBucket),
	})

	table.Render()
	return buf.String()
}
