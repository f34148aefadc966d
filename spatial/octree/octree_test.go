package octree

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/types"
)

func sceneFromPoints(points ...types.Vec3) *scene.Scene {
	mesh := &scene.Mesh{Name: "points"}
	for _, p := range points {
		mesh.Vertices = append(mesh.Vertices, scene.Vertex{Position: p})
	}
	return &scene.Scene{
		Models: []*scene.Model{{Name: "points", Meshes: []*scene.Mesh{mesh}}},
	}
}

func randomScene(count int) *scene.Scene {
	rng := rand.New(rand.NewSource(42))
	points := make([]types.Vec3, count)
	for idx := range points {
		points[idx] = types.Vec3{
			rng.Float32()*20 - 10,
			rng.Float32()*4 - 2,
			rng.Float32()*8 - 1,
		}
	}
	// Duplicates must be kept
	points = append(points, points[0], points[1])
	return sceneFromPoints(points...)
}

func gridScene(size int) *scene.Scene {
	var points []types.Vec3
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				points = append(points, types.Vec3{float32(x), float32(y), float32(z)})
			}
		}
	}
	return sceneFromPoints(points...)
}

func TestBuildErrors(t *testing.T) {
	type spec struct {
		sc       *scene.Scene
		depth    int
		expError error
	}
	specs := []spec{
		{scene.NewScene(), 4, ErrEmptyScene},
		{&scene.Scene{Models: []*scene.Model{{Name: "empty", Meshes: []*scene.Mesh{{Name: "empty"}}}}}, 4, ErrEmptyScene},
		{gridScene(2), -1, ErrInvalidDepth},
		{gridScene(2), MaxDepthLimit + 1, ErrInvalidDepth},
		{gridScene(2), MaxDepthLimit, nil},
	}

	for idx, s := range specs {
		_, err := Build(s.sc, s.depth)
		if err != s.expError {
			t.Fatalf("[spec %d] expected error %v; got %v", idx, s.expError, err)
		}
	}
}

func TestDepthZeroBuildsSingleLeaf(t *testing.T) {
	sc := gridScene(3)
	tree, err := Build(sc, 0)
	if err != nil {
		t.Fatal(err)
	}

	if tree.Len() != 1 {
		t.Fatalf("expected a single node; got %d", tree.Len())
	}
	root := tree.Node(0)
	if root.Kind != Leaf {
		t.Fatalf("expected root to be a leaf; got %s", root.Kind)
	}

	expVertices := sc.Models[0].Meshes[0].Vertices
	if len(root.Vertices) != len(expVertices) {
		t.Fatalf("expected root bucket to hold %d vertices; got %d", len(expVertices), len(root.Vertices))
	}
	for idx, v := range root.Vertices {
		if v != expVertices[idx] {
			t.Fatalf("[vertex %d] expected bucket to preserve insertion order", idx)
		}
	}
}

func TestLeafBucketsMatchInput(t *testing.T) {
	sc := randomScene(500)
	for depth := 0; depth <= 5; depth++ {
		tree, err := Build(sc, depth)
		if err != nil {
			t.Fatal(err)
		}

		expected := make(map[types.Vec3]int)
		sc.ForEachVertex(func(v *scene.Vertex) {
			expected[v.Position]++
		})

		got := make(map[types.Vec3]int)
		for _, leafIndex := range tree.Leaves() {
			for _, v := range tree.Node(leafIndex).Vertices {
				got[v.Position]++
			}
		}

		if len(got) != len(expected) {
			t.Fatalf("[depth %d] expected %d distinct positions; got %d", depth, len(expected), len(got))
		}
		for pos, count := range expected {
			if got[pos] != count {
				t.Fatalf("[depth %d] expected position %v to appear %d times; got %d", depth, pos, count, got[pos])
			}
		}

		if tree.NumVertices() != sc.NumVertices() {
			t.Fatalf("[depth %d] expected %d vertices; got %d", depth, sc.NumVertices(), tree.NumVertices())
		}
	}
}

func TestVerticesReachableByContainment(t *testing.T) {
	sc := randomScene(300)
	tree, err := Build(sc, 4)
	if err != nil {
		t.Fatal(err)
	}

	sc.ForEachVertex(func(v *scene.Vertex) {
		leafIndex, ok := tree.Locate(v.Position)
		if !ok {
			t.Fatalf("expected vertex %v to be inside the root box", v.Position)
		}
		leaf := tree.Node(leafIndex)
		if leaf.Kind != Leaf || leaf.Depth != 4 {
			t.Fatalf("expected descent to end at a depth 4 leaf; got %s at depth %d", leaf.Kind, leaf.Depth)
		}
		if !leaf.Box.Contains(v.Position) {
			t.Fatalf("expected leaf box %v to contain %v", leaf.Box, v.Position)
		}
		if len(tree.QueryPoint(v.Position)) == 0 {
			t.Fatalf("expected QueryPoint to find %v", v.Position)
		}
	})
}

func TestChildrenTileParent(t *testing.T) {
	tree, err := Build(randomScene(200), 3)
	if err != nil {
		t.Fatal(err)
	}

	tree.Walk(func(nodeIndex int, node *Node) bool {
		if node.Kind == Leaf {
			return true
		}

		var volume float32
		for octant := 0; octant < 8; octant++ {
			child := tree.Node(node.Child(octant))
			if child.Depth != node.Depth+1 {
				t.Fatalf("[node %d] expected child depth %d; got %d", nodeIndex, node.Depth+1, child.Depth)
			}
			if !node.Box.Contains(child.Box.Min) || !node.Box.Contains(child.Box.Max) {
				t.Fatalf("[node %d] child box %v escapes parent box %v", nodeIndex, child.Box, node.Box)
			}
			for other := octant + 1; other < 8; other++ {
				if child.Box.Overlaps(tree.Node(node.Child(other)).Box) {
					t.Fatalf("[node %d] children %d and %d overlap", nodeIndex, octant, other)
				}
			}
			volume += child.Box.Volume()
		}

		if parentVolume := node.Box.Volume(); math32.Abs(volume-parentVolume) > 1e-4*parentVolume {
			t.Fatalf("[node %d] expected children volume %f to equal parent volume %f", nodeIndex, volume, parentVolume)
		}
		return true
	})
}

func TestOctantOrder(t *testing.T) {
	tree, err := Build(sceneFromPoints(types.Vec3{0, 0, 0}, types.Vec3{2, 2, 2}), 1)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		octant int
		min    types.Vec3
	}
	specs := []spec{
		{0, types.Vec3{0, 0, 0}},
		{1, types.Vec3{1, 0, 0}},
		{2, types.Vec3{0, 1, 0}},
		{3, types.Vec3{0, 0, 1}},
		{4, types.Vec3{1, 1, 1}},
		{5, types.Vec3{0, 1, 1}},
		{6, types.Vec3{1, 0, 1}},
		{7, types.Vec3{1, 1, 0}},
	}

	root := tree.Node(0)
	for idx, s := range specs {
		box := tree.Node(root.Child(s.octant)).Box
		expMax := s.min.Add(types.Vec3{1, 1, 1})
		if box.Min != s.min || box.Max != expMax {
			t.Fatalf("[spec %d] expected octant %d box [%v - %v]; got %v", idx, s.octant, s.min, expMax, box)
		}
	}
}

func TestPointOnSplitPlane(t *testing.T) {
	sc := sceneFromPoints(types.Vec3{0, 0, 0}, types.Vec3{2, 2, 2}, types.Vec3{1, 1, 1})
	tree, err := Build(sc, 1)
	if err != nil {
		t.Fatal(err)
	}

	root := tree.Node(0)
	first := tree.Node(root.Child(0))
	if len(first.Vertices) != 2 || first.Vertices[1].Position != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected the centre point to land in the first containing octant; got %v", first.Vertices)
	}
	if len(tree.Node(root.Child(4)).Vertices) != 1 {
		t.Fatalf("expected the max corner to land in octant 4")
	}

	matches := tree.QueryPoint(types.Vec3{1, 1, 1})
	if len(matches) != 1 {
		t.Fatalf("expected QueryPoint to find the centre point; got %d matches", len(matches))
	}
}

func TestFallbackOctant(t *testing.T) {
	nan := math32.NaN()
	type spec struct {
		p      types.Vec3
		octant int
	}
	specs := []spec{
		{types.Vec3{-1, -1, -1}, 0},
		{types.Vec3{1, -1, -1}, 1},
		{types.Vec3{nan, 5, nan}, 2},
		{types.Vec3{-1, -1, 1}, 3},
		{types.Vec3{1, 1, 1}, 4},
		{types.Vec3{1, 1, nan}, 7},
	}

	for idx, s := range specs {
		if got := fallbackOctant(types.Vec3{}, s.p); got != s.octant {
			t.Fatalf("[spec %d] expected octant %d; got %d", idx, s.octant, got)
		}
	}
}

func TestLazySubdivision(t *testing.T) {
	tree, err := Build(sceneFromPoints(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 0}), 2)
	if err != nil {
		t.Fatal(err)
	}

	// root + 8 children + 8 grandchildren under the single visited child
	if tree.Len() != 17 {
		t.Fatalf("expected 17 nodes; got %d", tree.Len())
	}

	stats := tree.Stats()
	if stats.Leaves != 15 || stats.EmptyLeaves != 14 || stats.MaxBucket != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestQueries(t *testing.T) {
	tree, err := Build(gridScene(4), 3)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := tree.Locate(types.Vec3{-1, 0, 0}); ok {
		t.Fatal("expected Locate to fail for a point outside the root box")
	}
	if got := tree.QueryPoint(types.Vec3{0.5, 0, 0}); len(got) != 0 {
		t.Fatalf("expected no vertices at (0.5, 0, 0); got %d", len(got))
	}

	found := tree.QueryBox(types.BBox{Min: types.Vec3{1, 1, 1}, Max: types.Vec3{2, 2, 2}})
	if len(found) != 8 {
		t.Fatalf("expected 8 vertices inside the query box; got %d", len(found))
	}
	if got := tree.QueryBox(types.BBox{Min: types.Vec3{10, 10, 10}, Max: types.Vec3{11, 11, 11}}); len(got) != 0 {
		t.Fatalf("expected no vertices in a disjoint box; got %d", len(got))
	}

	expBounds := types.BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{3, 3, 3}}
	if tree.Bounds() != expBounds {
		t.Fatalf("expected bounds %v; got %v", expBounds, tree.Bounds())
	}

	type raySpec struct {
		ray    types.Ray
		expHit bool
	}
	raySpecs := []raySpec{
		{types.Ray{Origin: types.Vec3{-5, 1.5, 1.5}, Dir: types.Vec3{1, 0, 0}}, true},
		{types.Ray{Origin: types.Vec3{-5, 1.5, 1.5}, Dir: types.Vec3{-1, 0, 0}}, false},
		{types.Ray{Origin: types.Vec3{1, 1, 1}, Dir: types.Vec3{0, 1, 0}}, true},
		{types.Ray{Origin: types.Vec3{-5, 10, 1.5}, Dir: types.Vec3{1, 0, 0}}, false},
	}
	for idx, s := range raySpecs {
		if got := tree.IntersectsRay(s.ray); got != s.expHit {
			t.Fatalf("[spec %d] expected ray hit to be %t; got %t", idx, s.expHit, got)
		}
	}
}

func TestStatsTable(t *testing.T) {
	tree, err := Build(gridScene(3), 2)
	if err != nil {
		t.Fatal(err)
	}

	stats := tree.Stats()
	if stats.Vertices != 27 {
		t.Fatalf("expected stats to count 27 vertices; got %d", stats.Vertices)
	}
	if stats.Nodes != tree.Len() {
		t.Fatalf("expected stats to count %d nodes; got %d", tree.Len(), stats.Nodes)
	}

	table := stats.String()
	for _, exp := range []string{"Depth", "Vertices", "Total"} {
		if !strings.Contains(table, exp) {
			t.Fatalf("expected stats table to contain %q; got\n%s", exp, table)
		}
	}
}
