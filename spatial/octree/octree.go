package octree

import (
	"errors"
	"fmt"
	"time"

	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/log"
	"github.com/venomrt/venom/types"
)

// The deepest tree that Build will construct.
const MaxDepthLimit = 16

var (
	ErrEmptyScene   = errors.New("octree: scene contains no vertices")
	ErrInvalidDepth = fmt.Errorf("octree: max depth must be in the [0, %d] range", MaxDepthLimit)
)

type NodeKind uint8

const (
	Leaf NodeKind = iota
	Branch
)

func (k NodeKind) String() string {
	if k == Branch {
		return "branch"
	}
	return "leaf"
}

// Per-octant selectors for the upper half of the split along each axis. The
// order of the entries defines the child order inside the node list.
var octants = [8][3]bool{
	{false, false, false},
	{true, false, false},
	{false, true, false},
	{false, false, true},
	{true, true, true},
	{false, true, true},
	{true, false, true},
	{true, true, false},
}

// An octree node. Nodes are stored in a contiguous list and reference their
// children by index. The 8 children of a branch are stored back to back
// starting at FirstChild.
type Node struct {
	Box   types.BBox
	Depth int
	Kind  NodeKind

	// Index of the first child (branches only).
	FirstChild int

	// Vertex bucket (leaves only).
	Vertices []scene.Vertex
}

// Index of the i-th child of a branch node.
func (n *Node) Child(octant int) int {
	return n.FirstChild + octant
}

// An octree that partitions the vertices of a scene. The tree is never
// modified after Build returns, so it can be queried from multiple goroutines.
type Octree struct {
	nodes       []Node
	maxDepth    int
	numVertices int
}

// Build an octree over every vertex of the scene. The root box is the
// bounding box of the scene and vertices are inserted one at a time in scene
// order. Vertices are pushed down to maxDepth; a depth of 0 yields a single
// leaf holding every vertex.
func Build(sc *scene.Scene, maxDepth int) (*Octree, error) {
	if maxDepth < 0 || maxDepth > MaxDepthLimit {
		return nil, ErrInvalidDepth
	}
	if sc == nil || sc.NumVertices() == 0 {
		return nil, ErrEmptyScene
	}

	logger := log.New("octree")
	start := time.Now()

	tree := &Octree{
		nodes:    make([]Node, 1, 1+8*maxDepth),
		maxDepth: maxDepth,
	}
	tree.nodes[0] = Node{Box: sc.BBox(), Kind: Leaf}

	sc.ForEachVertex(func(v *scene.Vertex) {
		tree.insert(*v)
	})

	logger.Debugf(
		"octree build time: %d ms, maxDepth: %d, nodes: %d, vertices: %d",
		time.Since(start).Nanoseconds()/1e6,
		maxDepth, len(tree.nodes), tree.numVertices,
	)
	return tree, nil
}

// Push a vertex down the tree until it reaches a node at maxDepth.
func (t *Octree) insert(v scene.Vertex) {
	nodeIndex := 0
	for {
		if t.nodes[nodeIndex].Depth == t.maxDepth {
			t.nodes[nodeIndex].Vertices = append(t.nodes[nodeIndex].Vertices, v)
			t.numVertices++
			return
		}

		if t.nodes[nodeIndex].Kind == Leaf {
			t.subdivide(nodeIndex)
		}
		nodeIndex = t.selectChild(nodeIndex, v.Position)
	}
}

// Convert a leaf into a branch by bisecting its box at the centre.
func (t *Octree) subdivide(nodeIndex int) {
	parent := t.nodes[nodeIndex]
	center := parent.Box.Center()

	firstChild := len(t.nodes)
	for _, upper := range octants {
		var box types.BBox
		for axis := 0; axis < 3; axis++ {
			if upper[axis] {
				box.Min[axis], box.Max[axis] = center[axis], parent.Box.Max[axis]
			} else {
				box.Min[axis], box.Max[axis] = parent.Box.Min[axis], center[axis]
			}
		}
		t.nodes = append(t.nodes, Node{Box: box, Depth: parent.Depth + 1, Kind: Leaf})
	}

	t.nodes[nodeIndex].Kind = Branch
	t.nodes[nodeIndex].FirstChild = firstChild
}

// Select the first child whose box contains p. Points that no child contains
// (NaN coordinates or rounding at the box edges) are assigned by comparing
// them against the node centre.
func (t *Octree) selectChild(nodeIndex int, p types.Vec3) int {
	node := &t.nodes[nodeIndex]
	for octant := 0; octant < 8; octant++ {
		if t.nodes[node.Child(octant)].Box.Contains(p) {
			return node.Child(octant)
		}
	}
	return node.Child(fallbackOctant(node.Box.Center(), p))
}

func fallbackOctant(center, p types.Vec3) int {
	upper := [3]bool{p[0] >= center[0], p[1] >= center[1], p[2] >= center[2]}
	for octant, sel := range octants {
		if sel == upper {
			return octant
		}
	}
	return 0
}

// Find the leaf reached by descending from the root through the first child
// that contains p. Returns false if p lies outside the root box.
func (t *Octree) Locate(p types.Vec3) (int, bool) {
	if !t.nodes[0].Box.Contains(p) {
		return -1, false
	}

	nodeIndex := 0
	for t.nodes[nodeIndex].Kind == Branch {
		nodeIndex = t.selectChild(nodeIndex, p)
	}
	return nodeIndex, true
}

// Return the vertices whose position equals p.
func (t *Octree) QueryPoint(p types.Vec3) []scene.Vertex {
	leafIndex, ok := t.Locate(p)
	if !ok {
		return nil
	}

	var out []scene.Vertex
	for _, v := range t.nodes[leafIndex].Vertices {
		if v.Position == p {
			out = append(out, v)
		}
	}
	return out
}

// Return the vertices that lie inside box (inclusive).
func (t *Octree) QueryBox(box types.BBox) []scene.Vertex {
	var out []scene.Vertex
	t.Walk(func(_ int, node *Node) bool {
		if !node.Box.Intersects(box) {
			return false
		}
		for _, v := range node.Vertices {
			if box.Contains(v.Position) {
				out = append(out, v)
			}
		}
		return true
	})
	return out
}

// Returns true if the ray hits the root box.
func (t *Octree) IntersectsRay(ray types.Ray) bool {
	_, _, hit := t.nodes[0].Box.IntersectRay(ray)
	return hit
}

// Visit nodes depth-first starting at the root. Returning false from fn skips
// the children of the visited node.
func (t *Octree) Walk(fn func(nodeIndex int, node *Node) bool) {
	t.walk(0, fn)
}

func (t *Octree) walk(nodeIndex int, fn func(int, *Node) bool) {
	node := &t.nodes[nodeIndex]
	if !fn(nodeIndex, node) || node.Kind == Leaf {
		return
	}
	for octant := 0; octant < 8; octant++ {
		t.walk(node.Child(octant), fn)
	}
}

// Indices of all leaf nodes in depth-first order.
func (t *Octree) Leaves() []int {
	leaves := make([]int, 0)
	t.Walk(func(nodeIndex int, node *Node) bool {
		if node.Kind == Leaf {
			leaves = append(leaves, nodeIndex)
		}
		return true
	})
	return leaves
}

// Get a node by index. The returned node must be treated as read-only.
func (t *Octree) Node(nodeIndex int) *Node {
	return &t.nodes[nodeIndex]
}

// Number of nodes.
func (t *Octree) Len() int {
	return len(t.nodes)
}

// Number of indexed vertices.
func (t *Octree) NumVertices() int {
	return t.numVertices
}

// Max depth used for building the tree.
func (t *Octree) MaxDepth() int {
	return t.maxDepth
}

// Root box.
func (t *Octree) Bounds() types.BBox {
	return t.nodes[0].Box
}
