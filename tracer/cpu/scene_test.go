package cpu

import (
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/spatial/octree"
	"github.com/venomrt/venom/tracer"
	"github.com/venomrt/venom/types"
)

func quadScene() *scene.Scene {
	v := func(x, y, z float32) scene.Vertex {
		return scene.Vertex{Position: types.Vec3{x, y, z}, Normal: types.Vec3{0, 0, 1}}
	}
	return &scene.Scene{
		Models: []*scene.Model{
			{
				Name: "quad",
				Meshes: []*scene.Mesh{
					{
						Name: "quad",
						Vertices: []scene.Vertex{
							v(-1.5, -1.5, 0), v(1.5, -1.5, 0), v(1.5, 1.5, 0),
							v(-1.5, -1.5, 0), v(1.5, 1.5, 0), v(-1.5, 1.5, 0),
						},
					},
				},
			},
		},
	}
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Commit(); err != ErrEmptyScene {
		t.Fatalf("expected ErrEmptyScene; got %v", err)
	}

	type spec struct {
		center types.Vec3
		radius float32
	}
	specs := []spec{
		{types.Vec3{}, 0},
		{types.Vec3{}, -1},
		{types.Vec3{}, math32.NaN()},
		{types.Vec3{}, math32.Inf(1)},
		{types.Vec3{math32.NaN(), 0, 0}, 1},
	}
	for idx, s := range specs {
		if _, err := b.AddSphere(s.center, s.radius); err != ErrDegenerateSphere {
			t.Fatalf("[spec %d] expected ErrDegenerateSphere; got %v", idx, err)
		}
	}

	if _, err := b.AddTriangle(types.Vec3{}, types.Vec3{math32.Inf(-1), 0, 0}, types.Vec3{0, 1, 0}); err != ErrInvalidTriangle {
		t.Fatalf("expected ErrInvalidTriangle; got %v", err)
	}

	if _, err := b.AddSphere(types.Vec3{}, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Commit(); err != ErrCommitted {
		t.Fatalf("expected ErrCommitted on second commit; got %v", err)
	}
	if _, err := b.AddSphere(types.Vec3{}, 1); err != ErrCommitted {
		t.Fatalf("expected ErrCommitted when adding after commit; got %v", err)
	}
	if _, err := b.AddTriangle(types.Vec3{}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}); err != ErrCommitted {
		t.Fatalf("expected ErrCommitted when adding after commit; got %v", err)
	}
}

func TestPrimitiveIDs(t *testing.T) {
	b := NewBuilder()
	if err := b.AddSceneGraph(quadScene()); err != nil {
		t.Fatal(err)
	}
	id, err := b.AddSphere(types.Vec3{0, 0, 5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Fatalf("expected sphere to get primitive id 2; got %d", id)
	}

	sc, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if sc.NumPrimitives() != 3 {
		t.Fatalf("expected 3 primitives; got %d", sc.NumPrimitives())
	}
}

func TestIntersect(t *testing.T) {
	b := NewBuilder()
	if err := b.AddSceneGraph(quadScene()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddSphere(types.Vec3{}, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddSphere(types.Vec3{10, 0, 0}, 2); err != nil {
		t.Fatal(err)
	}
	sc, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		ray       types.Ray
		expHit    bool
		expT      float32
		expNormal types.Vec3
		expPrim   uint32
	}
	specs := []spec{
		// unit sphere in front of the quad
		{types.Ray{Origin: types.Vec3{0, 0, 10}, Dir: types.Vec3{0, 0, -1}}, true, 9, types.Vec3{0, 0, 1}, 2},
		// non-unit direction; distance is scaled
		{types.Ray{Origin: types.Vec3{0, 0, 10}, Dir: types.Vec3{0, 0, -2}}, true, 4.5, types.Vec3{0, 0, 1}, 2},
		// quad corner, first triangle
		{types.Ray{Origin: types.Vec3{1.2, -1.2, 10}, Dir: types.Vec3{0, 0, -1}}, true, 10, types.Vec3{0, 0, 1}, 0},
		// quad corner, second triangle
		{types.Ray{Origin: types.Vec3{-1.2, 1.2, 10}, Dir: types.Vec3{0, 0, -1}}, true, 10, types.Vec3{0, 0, 1}, 1},
		// quad from behind; geometric normal does not flip
		{types.Ray{Origin: types.Vec3{1.2, -1.2, -10}, Dir: types.Vec3{0, 0, 1}}, true, 10, types.Vec3{0, 0, 1}, 0},
		// origin inside the unit sphere
		{types.Ray{Origin: types.Vec3{}, Dir: types.Vec3{0, 1, 0}}, true, 1, types.Vec3{0, 1, 0}, 2},
		// second sphere from the side
		{types.Ray{Origin: types.Vec3{20, 0, 0}, Dir: types.Vec3{-1, 0, 0}}, true, 8, types.Vec3{1, 0, 0}, 3},
		// misses
		{types.Ray{Origin: types.Vec3{0, 0, 10}, Dir: types.Vec3{0, 0, 1}}, false, 0, types.Vec3{}, 0},
		{types.Ray{Origin: types.Vec3{5, 5, 10}, Dir: types.Vec3{0, 0, -1}}, false, 0, types.Vec3{}, 0},
		{types.Ray{Origin: types.Vec3{0, 5, 10}, Dir: types.Vec3{1, 0, 0}}, false, 0, types.Vec3{}, 0},
	}

	for idx, s := range specs {
		var hit tracer.Hit
		gotHit, err := sc.Intersect(s.ray, &hit)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", idx, err)
		}
		if gotHit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", idx, s.expHit, gotHit)
		}
		if !s.expHit {
			continue
		}
		if math32.Abs(hit.Distance-s.expT) > 1e-4 {
			t.Fatalf("[spec %d] expected distance %f; got %f", idx, s.expT, hit.Distance)
		}
		if !types.ApproxEqual(hit.Normal, s.expNormal, 1e-5) {
			t.Fatalf("[spec %d] expected normal %v; got %v", idx, s.expNormal, hit.Normal)
		}
		if hit.PrimitiveID != s.expPrim {
			t.Fatalf("[spec %d] expected primitive %d; got %d", idx, s.expPrim, hit.PrimitiveID)
		}
	}
}

func TestIntersectInvalidRay(t *testing.T) {
	b := NewBuilder()
	b.AddSphere(types.Vec3{}, 1)
	sc, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}

	specs := []types.Ray{
		{Origin: types.Vec3{}, Dir: types.Vec3{}},
		{Origin: types.Vec3{math32.NaN(), 0, 0}, Dir: types.Vec3{0, 0, 1}},
		{Origin: types.Vec3{}, Dir: types.Vec3{0, math32.Inf(1), 0}},
	}
	for idx, ray := range specs {
		var hit tracer.Hit
		if _, err := sc.Intersect(ray, &hit); err != ErrInvalidRay {
			t.Fatalf("[spec %d] expected ErrInvalidRay; got %v", idx, err)
		}
	}
}

func TestSpatialIndexCulling(t *testing.T) {
	sg := quadScene()
	index, err := octree.Build(sg, 2)
	if err != nil {
		t.Fatal(err)
	}

	build := func(withIndex bool) *Scene {
		b := NewBuilder()
		if withIndex {
			b.WithSpatialIndex(index)
		}
		if err := b.AddSceneGraph(sg); err != nil {
			t.Fatal(err)
		}
		// Spheres are never culled, even when outside the index bounds
		if _, err := b.AddSphere(types.Vec3{0, 0, 20}, 1); err != nil {
			t.Fatal(err)
		}
		sc, err := b.Commit()
		if err != nil {
			t.Fatal(err)
		}
		return sc
	}
	plain, culled := build(false), build(true)

	if culled.cullBox == nil || plain.cullBox != nil {
		t.Fatal("expected only the indexed scene to carry a cull box")
	}

	for y := -3; y <= 3; y++ {
		for x := -3; x <= 3; x++ {
			for _, ray := range []types.Ray{
				{Origin: types.Vec3{float32(x) * 0.6, float32(y) * 0.6, 10}, Dir: types.Vec3{0, 0, -1}},
				{Origin: types.Vec3{float32(x) * 0.6, float32(y) * 0.6, 30}, Dir: types.Vec3{0, 0, -1}},
				{Origin: types.Vec3{0, 0, 10}, Dir: types.Vec3{float32(x) * 0.1, float32(y) * 0.1, -1}},
			} {
				var h1, h2 tracer.Hit
				ok1, _ := plain.Intersect(ray, &h1)
				ok2, _ := culled.Intersect(ray, &h2)
				if ok1 != ok2 || h1 != h2 {
					t.Fatalf("expected identical results for ray %v; got (%t, %v) vs (%t, %v)", ray, ok1, h1, ok2, h2)
				}
			}
		}
	}
}

func TestCullBoxCoversTrianglesOutsideIndex(t *testing.T) {
	index, err := octree.Build(quadScene(), 1)
	if err != nil {
		t.Fatal(err)
	}

	b := NewBuilder().WithSpatialIndex(index)
	if _, err := b.AddTriangle(types.Vec3{10, 0, 0}, types.Vec3{12, 0, 0}, types.Vec3{10, 2, 0}); err != nil {
		t.Fatal(err)
	}
	sc, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}

	var hit tracer.Hit
	ok, err := sc.Intersect(types.Ray{Origin: types.Vec3{10.5, 0.5, 5}, Dir: types.Vec3{0, 0, -1}}, &hit)
	if err != nil || !ok {
		t.Fatalf("expected triangle outside the index bounds to be hit; got %t, %v", ok, err)
	}
}

func TestConcurrentIntersect(t *testing.T) {
	b := NewBuilder()
	b.AddSceneGraph(quadScene())
	b.AddSphere(types.Vec3{}, 1)
	sc, err := b.Commit()
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ray := types.Ray{Origin: types.Vec3{0, 0, 10}, Dir: types.Vec3{0, 0, -1}}
			for i := 0; i < 1000; i++ {
				var hit tracer.Hit
				if ok, err := sc.Intersect(ray, &hit); err != nil || !ok || hit.PrimitiveID != 2 {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	if len(errCh) != 0 {
		t.Fatalf("expected all concurrent intersections to hit the sphere")
	}
}
